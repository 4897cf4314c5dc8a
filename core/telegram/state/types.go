package state

import tele "gopkg.in/telebot.v4"

// State identifies a dialog step.
type State string

// StateIdle indicates there is no active dialog in the chat.
const StateIdle State = "idle"

// Session stores the dialog state and temporary values of one chat.
type Session struct {
	State    State
	TempData map[string]any
}

// Manager tracks dialog sessions keyed by chat id and dispatches updates
// to the handler registered for the current state.
type Manager interface {
	GetState(chatID int64) State
	SetState(chatID int64, st State)
	SetTemp(chatID int64, key string, value any)
	GetTemp(chatID int64, key string) (any, bool)
	GetTempString(chatID int64, key string) (string, bool)
	Clear(chatID int64)

	InProgress(chatID int64) bool
	Handle(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}
