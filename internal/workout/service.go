package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/m3rciful/gymbot/core/logger"
)

const component = "service.sessions"

var (
	// ErrNotApplicable is matched by every precondition failure of Service.
	ErrNotApplicable = errors.New("workout: not applicable")
	// ErrNoSession is returned when the conversation has no live session.
	ErrNoSession = fmt.Errorf("%w: no active session", ErrNotApplicable)
	// ErrWrongStep is returned when the session is in a different step.
	ErrWrongStep = fmt.Errorf("%w: wrong step", ErrNotApplicable)
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("workout: invalid date")
)

// Service drives the session state machine on top of the repositories.
// Operations on the same key are serialized.
type Service struct {
	sessions SessionRepository
	workouts WorkoutRepository
	locks    *keyLocks

	// stale holds keys whose session outlived its finalized workout because
	// Remove failed. Such sessions read as absent until removed or replaced.
	staleMu sync.Mutex
	stale   map[Key]struct{}
}

// NewService wires a Service to its stores.
func NewService(sessions SessionRepository, workouts WorkoutRepository) *Service {
	return &Service{
		sessions: sessions,
		workouts: workouts,
		locks:    newKeyLocks(),
		stale:    make(map[Key]struct{}),
	}
}

// Start creates a fresh session awaiting a split choice. Any previous
// session of the conversation is discarded.
func (s *Service) Start(ctx context.Context, key Key, date string) (Session, error) {
	if !ValidDate(date) {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	unlock := s.locks.lock(key)
	defer unlock()

	_, replaced, err := s.sessions.Get(ctx, key)
	if err != nil {
		return Session{}, fmt.Errorf("start: load session: %w", err)
	}
	next := Session{Step: StepChooseSplit, Date: date, Exercises: []Exercise{}}
	if err := s.sessions.Save(ctx, key, next); err != nil {
		return Session{}, fmt.Errorf("start: save session: %w", err)
	}
	s.setStale(key, false)
	logger.Info(ctx, component, "session.started",
		slog.Int64("chat_id", key),
		slog.String("date", date),
		slog.Bool("replaced", replaced),
	)
	return next, nil
}

// Get returns the live session of the conversation.
func (s *Service) Get(ctx context.Context, key Key) (Session, error) {
	current, ok, err := s.load(ctx, key)
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	if !ok {
		return Session{}, ErrNoSession
	}
	return current, nil
}

// SetCardMessageID attaches the message that displays the live card.
func (s *Service) SetCardMessageID(ctx context.Context, key Key, id int) (Session, error) {
	return s.update(ctx, key, "set_card", func(current Session) (Session, error) {
		current.CardMessageID = id
		return current, nil
	})
}

// ChooseSplit records the split and moves the session to collecting.
func (s *Service) ChooseSplit(ctx context.Context, key Key, split Split) (Session, error) {
	return s.update(ctx, key, "choose_split", func(current Session) (Session, error) {
		chosen := split
		current.Split = &chosen
		current.Step = StepCollecting
		return current, nil
	})
}

// SetDate changes the session date. Invalid dates leave the session untouched.
func (s *Service) SetDate(ctx context.Context, key Key, date string) (Session, error) {
	if !ValidDate(date) {
		return Session{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return s.update(ctx, key, "set_date", func(current Session) (Session, error) {
		current.Date = date
		return current, nil
	})
}

// AddLine parses text and merges it into the collecting session.
func (s *Service) AddLine(ctx context.Context, key Key, text string) (Session, error) {
	return s.update(ctx, key, "add_line", func(current Session) (Session, error) {
		if current.Step != StepCollecting {
			return Session{}, ErrWrongStep
		}
		switch line := ParseLine(text).(type) {
		case ExerciseLine:
			current.CurrentExercise = line.Name
			current.Exercises = ensureExercise(current.Exercises, line.Name)
		case SetLine:
			name := current.CurrentExercise
			if name == "" {
				name = UnnamedExercise
				current.CurrentExercise = name
				current.Exercises = ensureExercise(current.Exercises, name)
			}
			current.Exercises = appendSet(current.Exercises, name, line.Entry)
		}
		return current, nil
	})
}

// Cancel drops the session if there is one.
func (s *Service) Cancel(ctx context.Context, key Key) error {
	unlock := s.locks.lock(key)
	defer unlock()
	if err := s.sessions.Remove(ctx, key); err != nil {
		return fmt.Errorf("cancel: remove session: %w", err)
	}
	s.setStale(key, false)
	logger.Info(ctx, component, "session.cancelled", slog.Int64("chat_id", key))
	return nil
}

// Finalize turns the collecting session into a Workout, stores it and
// removes the session.
func (s *Service) Finalize(ctx context.Context, key Key) (Workout, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	current, ok, err := s.load(ctx, key)
	if err != nil {
		return Workout{}, fmt.Errorf("finalize: load session: %w", err)
	}
	if !ok {
		return Workout{}, ErrNoSession
	}
	if current.Step != StepCollecting || current.Split == nil {
		return Workout{}, ErrWrongStep
	}

	w := Workout{
		Date:      current.Date,
		Split:     *current.Split,
		Exercises: current.Exercises,
	}
	if final, ok := s.workouts.(FinalStore); ok {
		if err := final.SaveFinal(ctx, key, w); err != nil {
			return Workout{}, fmt.Errorf("finalize: %w", err)
		}
	} else {
		if err := s.workouts.Save(ctx, key, w); err != nil {
			return Workout{}, fmt.Errorf("finalize: save workout: %w", err)
		}
		// The workout is stored. A session that could not be removed stays
		// hidden until a later Remove or Start.
		if err := s.sessions.Remove(ctx, key); err != nil {
			s.setStale(key, true)
			logger.Error(ctx, component, "session.remove_failed",
				slog.Int64("chat_id", key),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Info(ctx, component, "session.finalized",
		slog.Int64("chat_id", key),
		slog.String("date", w.Date),
		slog.String("split", string(w.Split)),
		slog.Int("exercises", len(w.Exercises)),
		slog.Int("sets", countSets(w.Exercises)),
	)
	return w, nil
}

func (s *Service) update(ctx context.Context, key Key, op string, fn func(Session) (Session, error)) (Session, error) {
	unlock := s.locks.lock(key)
	defer unlock()

	current, ok, err := s.load(ctx, key)
	if err != nil {
		return Session{}, fmt.Errorf("%s: load session: %w", op, err)
	}
	if !ok {
		return Session{}, ErrNoSession
	}
	next, err := fn(current)
	if err != nil {
		logger.Debug(ctx, component, "session.skip",
			slog.Int64("chat_id", key),
			slog.String("op", op),
			slog.String("step", string(current.Step)),
		)
		return Session{}, err
	}
	if err := s.sessions.Save(ctx, key, next); err != nil {
		return Session{}, fmt.Errorf("%s: save session: %w", op, err)
	}
	logger.Debug(ctx, component, "session.updated",
		slog.Int64("chat_id", key),
		slog.String("op", op),
		slog.String("step", string(next.Step)),
		slog.Int("exercises", len(next.Exercises)),
	)
	return next, nil
}

// load reads the session of key, hiding one left behind by a finalize whose
// Remove failed. Removal is retried on every read.
func (s *Service) load(ctx context.Context, key Key) (Session, bool, error) {
	if s.isStale(key) {
		if err := s.sessions.Remove(ctx, key); err == nil {
			s.setStale(key, false)
		}
		return Session{}, false, nil
	}
	return s.sessions.Get(ctx, key)
}

func (s *Service) isStale(key Key) bool {
	s.staleMu.Lock()
	defer s.staleMu.Unlock()
	_, ok := s.stale[key]
	return ok
}

func (s *Service) setStale(key Key, stale bool) {
	s.staleMu.Lock()
	defer s.staleMu.Unlock()
	if stale {
		s.stale[key] = struct{}{}
	} else {
		delete(s.stale, key)
	}
}

// ensureExercise appends an empty exercise unless one with the exact name exists.
func ensureExercise(list []Exercise, name string) []Exercise {
	for _, ex := range list {
		if ex.Name == name {
			return list
		}
	}
	return append(slices.Clip(list), Exercise{Name: name, Sets: []SetEntry{}})
}

// appendSet returns a copy of list with entry added to the named exercise.
func appendSet(list []Exercise, name string, entry SetEntry) []Exercise {
	out := make([]Exercise, len(list))
	copy(out, list)
	for i := range out {
		if out[i].Name == name {
			out[i].Sets = append(slices.Clip(out[i].Sets), entry)
		}
	}
	return out
}

func countSets(list []Exercise) int {
	n := 0
	for _, ex := range list {
		n += len(ex.Sets)
	}
	return n
}
