// Package sqlstore implements the workout and trainings repositories on
// sqlx. The same queries run on postgres and sqlite; placeholders are
// rebound per driver.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/internal/workout"
)

// Sessions stores one JSON encoded session per chat.
type Sessions struct {
	db *sqlx.DB
}

// NewSessions returns a session repository on db.
func NewSessions(db *sqlx.DB) *Sessions {
	return &Sessions{db: db}
}

// Get loads the session of key.
func (s *Sessions) Get(ctx context.Context, key workout.Key) (workout.Session, bool, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		s.db.Rebind(`SELECT payload FROM workout_sessions WHERE chat_id = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return workout.Session{}, false, nil
	}
	if err != nil {
		return workout.Session{}, false, fmt.Errorf("select session: %w", err)
	}
	var sess workout.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		return workout.Session{}, false, fmt.Errorf("decode session %d: %w", key, err)
	}
	return sess, true, nil
}

// Save replaces the session of key in a single statement.
func (s *Sessions) Save(ctx context.Context, key workout.Key, sess workout.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO workout_sessions (chat_id, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (chat_id) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at`),
		key, string(payload))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// Remove deletes the session of key if present.
func (s *Sessions) Remove(ctx context.Context, key workout.Key) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM workout_sessions WHERE chat_id = ?`), key)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Debug(ctx, "store", "store.session_removed", slog.Int64("chat_id", key))
	}
	return nil
}
