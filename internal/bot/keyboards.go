package bot

import (
	"github.com/m3rciful/gymbot/core/telegram/keyboard"
	"github.com/m3rciful/gymbot/internal/workout"

	tele "gopkg.in/telebot.v4"
)

// Callback keys and payloads.
const (
	cbSplit   = "split"
	cbWorkout = "workout"

	actionDone   = "done"
	actionCancel = "cancel"
)

// SplitKeyboard offers every split, two per row.
func SplitKeyboard() *tele.ReplyMarkup {
	splits := workout.Splits()
	buttons := make([]keyboard.InlineBtn, 0, len(splits))
	for _, s := range splits {
		buttons = append(buttons, keyboard.InlineBtn{Text: s.Label(), Unique: cbSplit, Data: string(s)})
	}
	return keyboard.InlineButtonsNPerRow(buttons, 2)
}

// ControlKeyboard carries the finish and cancel buttons.
func ControlKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: "Готово", Unique: cbWorkout, Data: actionDone},
		{Text: "Отменить", Unique: cbWorkout, Data: actionCancel},
	})
}

// cardKeyboard picks the card markup for the session step.
func cardKeyboard(s workout.Session) *tele.ReplyMarkup {
	if s.Step == workout.StepChooseSplit {
		return SplitKeyboard()
	}
	return ControlKeyboard()
}
