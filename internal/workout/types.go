// Package workout holds the workout logging domain: the data model, the
// free-text line parser, the split detector and the session state machine.
package workout

import "time"

// DateLayout is the ISO calendar date layout used for sessions and workouts.
const DateLayout = "2006-01-02"

// UnnamedExercise receives sets logged before any exercise name was typed.
const UnnamedExercise = "unnamed"

// Key identifies one conversation; all repositories are partitioned by it.
type Key = int64

// Step identifies the state of a workout session.
type Step string

const (
	// StepIdle means there is no session. It is never stored.
	StepIdle Step = "idle"
	// StepChooseSplit means the session exists and awaits a split choice.
	StepChooseSplit Step = "choose_split"
	// StepCollecting means the split is chosen and lines are accepted.
	StepCollecting Step = "collecting"
)

// SetEntry is one logged set. It is either ParsedSet or RawSet.
type SetEntry interface {
	// Raw returns the text the entry was parsed from.
	Raw() string
	isSetEntry()
}

// ParsedSet carries whatever numeric fields could be extracted from a line.
type ParsedSet struct {
	Weight *float64
	Reps   *int
	Sets   *int
	Note   string
	Text   string
}

// Raw implements SetEntry.
func (p ParsedSet) Raw() string { return p.Text }

func (ParsedSet) isSetEntry() {}

// RawSet keeps a line that matched no structured pattern.
type RawSet struct {
	Text string
}

// Raw implements SetEntry.
func (r RawSet) Raw() string { return r.Text }

func (RawSet) isSetEntry() {}

// Exercise groups set entries under a name in logging order.
type Exercise struct {
	Name string
	Sets []SetEntry
}

// Workout is a finalized session. It is never mutated after creation.
type Workout struct {
	Date      string     `json:"date"`
	Split     Split      `json:"split"`
	Exercises []Exercise `json:"exercises"`
}

// Session is the in-progress record for one conversation.
// Every transition produces a new value; stored values are never modified.
type Session struct {
	Step            Step       `json:"step"`
	Date            string     `json:"date"`
	Split           *Split     `json:"split,omitempty"`
	CurrentExercise string     `json:"current_exercise,omitempty"`
	Exercises       []Exercise `json:"exercises"`
	CardMessageID   int        `json:"card_message_id,omitempty"`
}

// HasCard reports whether a live card message is attached to the session.
func (s Session) HasCard() bool { return s.CardMessageID != 0 }

// Exercise returns the exercise with the exact name, if present.
func (s Session) Exercise(name string) (Exercise, bool) {
	for _, ex := range s.Exercises {
		if ex.Name == name {
			return ex, true
		}
	}
	return Exercise{}, false
}

// Today returns the ISO date of t in its location.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a real ISO calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
