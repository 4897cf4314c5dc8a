package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/gymbot/internal/trainings"
	"github.com/m3rciful/gymbot/internal/workout"
)

func ptr[T any](v T) *T { return &v }

func TestSetHTML(t *testing.T) {
	assert.Equal(t, "7.5 × 20", SetHTML(workout.ParsedSet{Weight: ptr(7.5), Reps: ptr(20), Text: "7.5х20"}))
	assert.Equal(t, "60 × 8", SetHTML(workout.ParsedSet{Weight: ptr(60.0), Reps: ptr(8), Text: "60x8"}))
	assert.Equal(t, "4 подход(а) по 12", SetHTML(workout.ParsedSet{Sets: ptr(4), Reps: ptr(12), Text: "4 подхода по 12"}))
	assert.Equal(t, "до отказа", SetHTML(workout.ParsedSet{Note: "до отказа", Text: "до отказа 3"}))
	assert.Equal(t, "a &lt;b&gt; &amp; c", SetHTML(workout.RawSet{Text: "a <b> & c"}))
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "04.12.2025", HumanDate("2025-12-04"))
	assert.Equal(t, "soon", HumanDate("soon"))
}

func TestCardHTMLByStep(t *testing.T) {
	s := workout.Session{Step: workout.StepChooseSplit, Date: "2025-12-04"}
	card := CardHTML(s)
	assert.Contains(t, card, "<blockquote>")
	assert.Contains(t, card, "не выбран")
	assert.NotContains(t, card, "Текущее упражнение")

	split := workout.SplitArms
	s.Step = workout.StepCollecting
	s.Split = &split
	s.CurrentExercise = "Бицепс"
	s.Exercises = []workout.Exercise{{Name: "Бицепс", Sets: []workout.SetEntry{workout.RawSet{Text: "тяжело"}}}}
	card = CardHTML(s)
	assert.Contains(t, card, "Руки")
	assert.Contains(t, card, "- тяжело")
	assert.Contains(t, card, "<b>Бицепс</b>")
}

func TestTrainingsText(t *testing.T) {
	assert.Contains(t, TrainingsText(nil), "Список пуст")
	got := TrainingsText([]trainings.Training{{Name: "Бег", Count: 3}, {Name: "Турник", Count: 10}})
	assert.Equal(t, "1. Бег — 3\n2. Турник — 10", got)
}
