package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/gymbot/internal/trainings"
)

// Trainings is the SQL trainings repository. The case-folded name is kept
// in name_key because sqlite's lower() only folds ASCII.
type Trainings struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewTrainings returns a trainings repository on db.
func NewTrainings(db *sqlx.DB) *Trainings {
	return &Trainings{db: db, now: time.Now}
}

// List returns every training sorted by name.
func (r *Trainings) List(ctx context.Context) ([]trainings.Training, error) {
	var items []trainings.Training
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, name, count, created_at, updated_at FROM trainings`)
	if err != nil {
		return nil, fmt.Errorf("select trainings: %w", err)
	}
	trainings.SortByName(items)
	return items, nil
}

// UpsertByName adds delta to name's total in one statement.
func (r *Trainings) UpsertByName(ctx context.Context, name string, delta int) (trainings.Training, error) {
	now := trainings.Timestamp(r.now())
	var out trainings.Training
	err := r.db.GetContext(ctx, &out, r.db.Rebind(`
		INSERT INTO trainings (id, name, name_key, count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name_key) DO UPDATE
		SET count = trainings.count + excluded.count, updated_at = excluded.updated_at
		RETURNING id, name, count, created_at, updated_at`),
		uuid.NewString(), name, trainings.NameKey(name), delta, now, now)
	if err != nil {
		return trainings.Training{}, fmt.Errorf("upsert training: %w", err)
	}
	return out, nil
}
