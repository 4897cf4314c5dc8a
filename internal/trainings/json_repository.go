package trainings

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m3rciful/gymbot/internal/storage/jsonfile"
)

// FileName is the document holding every training.
const FileName = "trainings.json"

type document struct {
	Version int        `json:"version"`
	Items   []Training `json:"items"`
}

// JSONRepository keeps all trainings in one JSON document.
type JSONRepository struct {
	mu    sync.Mutex
	store *jsonfile.Store
	now   func() time.Time
}

// NewJSONRepository returns a repository writing FileName into store.
func NewJSONRepository(store *jsonfile.Store) *JSONRepository {
	return &JSONRepository{store: store, now: time.Now}
}

func (r *JSONRepository) load() (document, error) {
	doc := document{Version: 1}
	if _, err := r.store.Read(FileName, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

// List returns the stored trainings sorted by name.
func (r *JSONRepository) List(_ context.Context) ([]Training, error) {
	r.mu.Lock()
	doc, err := r.load()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	items := slices.Clone(doc.Items)
	SortByName(items)
	return items, nil
}

// UpsertByName adds delta to the training called name, creating it if needed.
func (r *JSONRepository) UpsertByName(_ context.Context, name string, delta int) (Training, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load()
	if err != nil {
		return Training{}, err
	}
	now := Timestamp(r.now())
	key := NameKey(name)

	items := slices.Clone(doc.Items)
	idx := slices.IndexFunc(items, func(t Training) bool { return NameKey(t.Name) == key })
	var updated Training
	if idx >= 0 {
		updated = items[idx]
		updated.Count += delta
		updated.UpdatedAt = now
		items[idx] = updated
	} else {
		updated = Training{ID: uuid.NewString(), Name: name, Count: delta, CreatedAt: now, UpdatedAt: now}
		items = append(items, updated)
	}

	if err := r.store.Write(FileName, document{Version: 1, Items: items}); err != nil {
		return Training{}, fmt.Errorf("save trainings: %w", err)
	}
	return updated, nil
}
