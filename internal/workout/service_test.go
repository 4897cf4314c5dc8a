package workout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const conv Key = 42

func newTestService() (*Service, *MemorySessions, *MemoryWorkouts) {
	sessions := NewMemorySessions()
	workouts := NewMemoryWorkouts()
	return NewService(sessions, workouts), sessions, workouts
}

func TestServiceEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, sessions, workouts := newTestService()

	_, err := svc.Start(ctx, conv, "2024-06-01")
	require.NoError(t, err)
	_, err = svc.ChooseSplit(ctx, conv, SplitLegs)
	require.NoError(t, err)
	for _, line := range []string{"Squat", "7.5x20", "4 подхода по 12"} {
		_, err = svc.AddLine(ctx, conv, line)
		require.NoError(t, err, line)
	}

	w, err := svc.Finalize(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", w.Date)
	assert.Equal(t, SplitLegs, w.Split)
	require.Len(t, w.Exercises, 1)
	assert.Equal(t, "Squat", w.Exercises[0].Name)
	require.Len(t, w.Exercises[0].Sets, 2)

	first := w.Exercises[0].Sets[0].(ParsedSet)
	assert.InDelta(t, 7.5, *first.Weight, 1e-9)
	assert.Equal(t, 20, *first.Reps)
	second := w.Exercises[0].Sets[1].(ParsedSet)
	assert.Equal(t, 4, *second.Sets)
	assert.Equal(t, 12, *second.Reps)

	_, ok, err := sessions.Get(ctx, conv)
	require.NoError(t, err)
	assert.False(t, ok)

	saved, err := workouts.List(ctx, conv)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, w, saved[0])
}

func TestServiceStartOverwrites(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.Start(ctx, conv, "2024-06-01")
	require.NoError(t, err)
	_, err = svc.ChooseSplit(ctx, conv, SplitArms)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, conv, "Curl")
	require.NoError(t, err)

	s, err := svc.Start(ctx, conv, "2024-06-02")
	require.NoError(t, err)
	assert.Equal(t, StepChooseSplit, s.Step)
	assert.Equal(t, "2024-06-02", s.Date)
	assert.Nil(t, s.Split)
	assert.Empty(t, s.Exercises)

	got, err := svc.Get(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestServiceAddLineWrongStep(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	_, err := svc.AddLine(ctx, conv, "Squat")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, err, ErrNotApplicable)

	before, err := svc.Start(ctx, conv, "2024-06-01")
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, conv, "Squat")
	assert.ErrorIs(t, err, ErrWrongStep)
	assert.ErrorIs(t, err, ErrNotApplicable)

	after, ok, err := sessions.Get(ctx, conv)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestServiceExerciseIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	_, err := svc.Start(ctx, conv, "2024-06-01")
	require.NoError(t, err)
	_, err = svc.ChooseSplit(ctx, conv, SplitChestCalves)
	require.NoError(t, err)

	lines := []string{"Жим", "60x8", "Разводка", "12x12", "Жим", "65x6"}
	var s Session
	for _, l := range lines {
		s, err = svc.AddLine(ctx, conv, l)
		require.NoError(t, err, l)
	}
	require.Len(t, s.Exercises, 2)
	assert.Equal(t, "Жим", s.Exercises[0].Name)
	assert.Equal(t, "Жим", s.CurrentExercise)
	require.Len(t, s.Exercises[0].Sets, 2)
	assert.Equal(t, "60x8", s.Exercises[0].Sets[0].Raw())
	assert.Equal(t, "65x6", s.Exercises[0].Sets[1].Raw())
	assert.Len(t, s.Exercises[1].Sets, 1)
}

func TestServiceExerciseNamesCaseSensitive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitLegs)
	_, _ = svc.AddLine(ctx, conv, "squat")
	s, err := svc.AddLine(ctx, conv, "Squat")
	require.NoError(t, err)
	assert.Len(t, s.Exercises, 2)
}

func TestServiceUnnamedFallback(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitLegs)

	_, err := svc.AddLine(ctx, conv, "100x5")
	require.NoError(t, err)
	s, err := svc.AddLine(ctx, conv, "4 12")
	require.NoError(t, err)

	require.Len(t, s.Exercises, 1)
	assert.Equal(t, UnnamedExercise, s.Exercises[0].Name)
	assert.Equal(t, UnnamedExercise, s.CurrentExercise)
	assert.Len(t, s.Exercises[0].Sets, 2)
}

func TestServiceSnapshotsAreImmutable(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitLegs)

	snap, err := svc.AddLine(ctx, conv, "Squat")
	require.NoError(t, err)
	snap2, err := svc.AddLine(ctx, conv, "100x5")
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, conv, "110x3")
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, conv, "Lunges")
	require.NoError(t, err)

	assert.Empty(t, snap.Exercises[0].Sets)
	require.Len(t, snap2.Exercises, 1)
	assert.Len(t, snap2.Exercises[0].Sets, 1)
}

func TestServiceFinalizeOnce(t *testing.T) {
	ctx := context.Background()
	svc, _, workouts := newTestService()
	_, _ = svc.Start(ctx, conv, "2024-06-01")

	_, err := svc.Finalize(ctx, conv)
	assert.ErrorIs(t, err, ErrWrongStep)

	_, _ = svc.ChooseSplit(ctx, conv, SplitArms)
	_, err = svc.Finalize(ctx, conv)
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, conv)
	assert.ErrorIs(t, err, ErrNoSession)

	saved, _ := workouts.List(ctx, conv)
	assert.Len(t, saved, 1)
}

func TestServiceCancelIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()
	require.NoError(t, svc.Cancel(ctx, conv))

	_, _ = svc.Start(ctx, conv, "2024-06-01")
	require.NoError(t, svc.Cancel(ctx, conv))
	require.NoError(t, svc.Cancel(ctx, conv))
	_, ok, err := sessions.Get(ctx, conv)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Get(ctx, conv)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestServiceCardAndDate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.SetCardMessageID(ctx, conv, 7)
	assert.ErrorIs(t, err, ErrNoSession)

	_, _ = svc.Start(ctx, conv, "2024-06-01")
	s, err := svc.SetCardMessageID(ctx, conv, 7)
	require.NoError(t, err)
	assert.True(t, s.HasCard())

	_, err = svc.SetDate(ctx, conv, "01.06.2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.False(t, errors.Is(err, ErrNotApplicable))

	s, err = svc.SetDate(ctx, conv, "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", s.Date)
	assert.Equal(t, 7, s.CardMessageID)
}

func TestServiceChooseSplitWithoutSession(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.ChooseSplit(context.Background(), conv, SplitLegs)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestServiceConcurrentAddLine(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitLegs)
	_, _ = svc.AddLine(ctx, conv, "Squat")

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddLine(ctx, conv, "100x5")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := svc.Get(ctx, conv)
	require.NoError(t, err)
	assert.Len(t, s.Exercises[0].Sets, n)
}

type failingWorkouts struct{}

func (failingWorkouts) Save(context.Context, Key, Workout) error { return errors.New("disk full") }

func TestServiceFinalizeKeepsSessionOnSaveError(t *testing.T) {
	ctx := context.Background()
	sessions := NewMemorySessions()
	svc := NewService(sessions, failingWorkouts{})
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitLegs)

	_, err := svc.Finalize(ctx, conv)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotApplicable))

	s, err := svc.Get(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, StepCollecting, s.Step)
}

type stuckSessions struct {
	*MemorySessions
	removeErr error
}

func (s *stuckSessions) Remove(ctx context.Context, key Key) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	return s.MemorySessions.Remove(ctx, key)
}

func TestServiceFinalizeSucceedsWhenRemoveFails(t *testing.T) {
	ctx := context.Background()
	sessions := &stuckSessions{MemorySessions: NewMemorySessions(), removeErr: errors.New("remove down")}
	workouts := NewMemoryWorkouts()
	svc := NewService(sessions, workouts)
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitLegs)
	_, _ = svc.AddLine(ctx, conv, "Squat")

	w, err := svc.Finalize(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, SplitLegs, w.Split)

	_, err = svc.Get(ctx, conv)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.Finalize(ctx, conv)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = svc.AddLine(ctx, conv, "100x5")
	assert.ErrorIs(t, err, ErrNoSession)

	saved, err := workouts.List(ctx, conv)
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	sessions.removeErr = nil
	_, err = svc.Get(ctx, conv)
	assert.ErrorIs(t, err, ErrNoSession)
	_, ok, err := sessions.MemorySessions.Get(ctx, conv)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.Start(ctx, conv, "2024-06-02")
	require.NoError(t, err)
	s, err := svc.Get(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-02", s.Date)
}

type finalWorkouts struct {
	*MemoryWorkouts
	finals int
}

func (f *finalWorkouts) SaveFinal(ctx context.Context, key Key, w Workout) error {
	f.finals++
	return f.MemoryWorkouts.Save(ctx, key, w)
}

func TestServiceFinalizePrefersFinalStore(t *testing.T) {
	ctx := context.Background()
	sessions := &stuckSessions{MemorySessions: NewMemorySessions(), removeErr: errors.New("must not be called")}
	workouts := &finalWorkouts{MemoryWorkouts: NewMemoryWorkouts()}
	svc := NewService(sessions, workouts)
	_, _ = svc.Start(ctx, conv, "2024-06-01")
	_, _ = svc.ChooseSplit(ctx, conv, SplitArms)

	_, err := svc.Finalize(ctx, conv)
	require.NoError(t, err)
	assert.Equal(t, 1, workouts.finals)
}
