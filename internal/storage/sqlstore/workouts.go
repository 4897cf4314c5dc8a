package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/internal/workout"
)

// createdLayout is fixed width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000000Z"

// Workouts appends finalized workouts.
type Workouts struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewWorkouts returns a workout repository on db.
func NewWorkouts(db *sqlx.DB) *Workouts {
	return &Workouts{db: db, now: time.Now}
}

type workoutRow struct {
	ID        string `db:"id"`
	Date      string `db:"date"`
	Split     string `db:"split"`
	Exercises string `db:"exercises"`
}

const insertWorkoutSQL = `
	INSERT INTO workouts (id, chat_id, date, split, exercises, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

// Save inserts w under a fresh id.
func (r *Workouts) Save(ctx context.Context, key workout.Key, w workout.Workout) error {
	id, err := r.insert(ctx, r.db, key, w)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "store", "store.workout_saved",
		slog.Int64("chat_id", key),
		slog.String("id", id),
		slog.String("date", w.Date),
	)
	return nil
}

// SaveFinal inserts w and deletes the session of key in one transaction.
func (r *Workouts) SaveFinal(ctx context.Context, key workout.Key, w workout.Workout) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := r.insert(ctx, tx, key, w)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM workout_sessions WHERE chat_id = ?`), key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize: %w", err)
	}
	logger.Debug(ctx, "store", "store.workout_finalized",
		slog.Int64("chat_id", key),
		slog.String("id", id),
		slog.String("date", w.Date),
	)
	return nil
}

func (r *Workouts) insert(ctx context.Context, ex sqlx.ExecerContext, key workout.Key, w workout.Workout) (string, error) {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return "", fmt.Errorf("encode exercises: %w", err)
	}
	id := uuid.NewString()
	_, err = ex.ExecContext(ctx, r.db.Rebind(insertWorkoutSQL),
		id, key, w.Date, string(w.Split), string(exercises), r.now().UTC().Format(createdLayout))
	if err != nil {
		return "", fmt.Errorf("insert workout: %w", err)
	}
	return id, nil
}

var _ workout.FinalStore = (*Workouts)(nil)

// List returns the workouts of key in save order.
func (r *Workouts) List(ctx context.Context, key workout.Key) ([]workout.Workout, error) {
	var rows []workoutRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, date, split, exercises FROM workouts
		WHERE chat_id = ? ORDER BY created_at, id`), key)
	if err != nil {
		return nil, fmt.Errorf("select workouts: %w", err)
	}
	out := make([]workout.Workout, 0, len(rows))
	for _, row := range rows {
		w := workout.Workout{Date: row.Date, Split: workout.Split(row.Split)}
		if err := json.Unmarshal([]byte(row.Exercises), &w.Exercises); err != nil {
			return nil, fmt.Errorf("decode workout %s: %w", row.ID, err)
		}
		out = append(out, w)
	}
	return out, nil
}
