package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	messagesKey = "messages"
	keyboardKey = "kb"
)

// metricsContext wraps tele.Context to count sent messages and detect keyboard usage.
type metricsContext struct{ tele.Context }

func (m metricsContext) count(opts []any, err error) error {
	if err != nil {
		return err
	}
	n, _ := m.Get(messagesKey).(int)
	m.Set(messagesKey, n+1)
	if hasKeyboard(opts) {
		m.Set(keyboardKey, true)
	}
	return nil
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what any, opts ...any) error {
	return m.count(opts, m.Context.Send(what, opts...))
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what any, opts ...any) error {
	return m.count(opts, m.Context.Reply(what, opts...))
}

// Edit proxies tele.Context.Edit; edits count as responses.
func (m metricsContext) Edit(what any, opts ...any) error {
	return m.count(opts, m.Context.Edit(what, opts...))
}

// EditOrSend proxies tele.Context.EditOrSend while updating message counters.
func (m metricsContext) EditOrSend(what any, opts ...any) error {
	return m.count(opts, m.Context.EditOrSend(what, opts...))
}

// MessageMetricsMiddleware instruments context to track messages count and keyboard usage.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if _, ok := c.(metricsContext); ok {
			return next(c)
		}
		c.Set(messagesKey, 0)
		c.Set(keyboardKey, false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(messagesKey).(int)
	kb, _ := c.Get(keyboardKey).(bool)
	return msgs, kb
}
