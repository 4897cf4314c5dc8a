package workout

import (
	"context"
	"slices"
	"sync"
)

// SessionRepository stores the current session of each conversation.
// Save must replace the stored value atomically.
type SessionRepository interface {
	Get(ctx context.Context, key Key) (Session, bool, error)
	Save(ctx context.Context, key Key, s Session) error
	Remove(ctx context.Context, key Key) error
}

// WorkoutRepository appends finalized workouts per conversation.
type WorkoutRepository interface {
	Save(ctx context.Context, key Key, w Workout) error
}

// FinalStore is implemented by workout stores that can save w and drop the
// session of key in one transaction.
type FinalStore interface {
	SaveFinal(ctx context.Context, key Key, w Workout) error
}

// MemorySessions is the in-process SessionRepository.
type MemorySessions struct {
	mu       sync.RWMutex
	sessions map[Key]Session
}

// NewMemorySessions constructs an empty in-memory session store.
func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[Key]Session)}
}

// Get returns the stored session for key.
func (m *MemorySessions) Get(_ context.Context, key Key) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[key]
	return s, ok, nil
}

// Save replaces the session for key.
func (m *MemorySessions) Save(_ context.Context, key Key, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = s
	return nil
}

// Remove deletes the session for key if present.
func (m *MemorySessions) Remove(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

// MemoryWorkouts is the in-process WorkoutRepository.
type MemoryWorkouts struct {
	mu       sync.RWMutex
	workouts map[Key][]Workout
}

// NewMemoryWorkouts constructs an empty in-memory workout store.
func NewMemoryWorkouts() *MemoryWorkouts {
	return &MemoryWorkouts{workouts: make(map[Key][]Workout)}
}

// Save appends w to the list of key.
func (m *MemoryWorkouts) Save(_ context.Context, key Key, w Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workouts[key] = append(m.workouts[key], w)
	return nil
}

// List returns a copy of the workouts saved for key in save order.
func (m *MemoryWorkouts) List(_ context.Context, key Key) ([]Workout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.workouts[key]), nil
}
