package state

import (
	"log/slog"
	"sync"

	"github.com/m3rciful/gymbot/core/logger"
	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	handlers map[State]tele.HandlerFunc
}

// NewMemoryManager constructs an in-memory Manager.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		handlers: make(map[State]tele.HandlerFunc),
	}
}

// session returns the session of chatID, creating it. Callers hold mu.
func (m *memoryManager) session(chatID int64) *Session {
	sess, ok := m.sessions[chatID]
	if !ok {
		sess = &Session{State: StateIdle, TempData: make(map[string]any)}
		m.sessions[chatID] = sess
	}
	return sess
}

func (m *memoryManager) SetState(chatID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).State = st
}

// GetState returns the current state of the chat, or StateIdle.
func (m *memoryManager) GetState(chatID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[chatID]; ok {
		return sess.State
	}
	return StateIdle
}

func (m *memoryManager) SetTemp(chatID int64, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(chatID).TempData[key] = value
}

func (m *memoryManager) GetTemp(chatID int64, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[chatID]
	if !ok {
		return nil, false
	}
	val, ok := sess.TempData[key]
	return val, ok
}

func (m *memoryManager) GetTempString(chatID int64, key string) (string, bool) {
	val, found := m.GetTemp(chatID, key)
	if !found {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Clear removes the whole session of the chat.
func (m *memoryManager) Clear(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, chatID)
}

// InProgress reports whether the chat is in a state other than idle.
func (m *memoryManager) InProgress(chatID int64) bool {
	return m.GetState(chatID) != StateIdle
}

// Handle binds h to st. A nil handler removes the binding.
func (m *memoryManager) Handle(st State, h tele.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h == nil {
		delete(m.handlers, st)
		return
	}
	m.handlers[st] = h
}

// ManagerHandler runs the handler bound to the chat's current state.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	chatID := tghelpers.ChatID(c)
	current := m.GetState(chatID)

	m.mu.RLock()
	handler, ok := m.handlers[current]
	m.mu.RUnlock()

	logger.Debug(tghelpers.BuildContext(c), "tg", "fsm.manager",
		slog.String("state", string(current)),
		slog.Bool("bound", ok),
	)
	if !ok {
		return nil
	}
	return handler(c)
}
