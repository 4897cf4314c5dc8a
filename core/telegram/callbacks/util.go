// Package callbacks decodes inline button callback data.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData returns the unique key and payload of cb.
// Telebot encodes button data as "\f<unique>|<payload>"; when it already
// matched a unique handler, Unique is set and Data holds the payload alone.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	unique, payload, _ := strings.Cut(raw, "|")
	return strings.TrimSpace(unique), payload
}

// CallbackKey returns the unique key of the current callback.
func CallbackKey(c tele.Context) string {
	key, _ := ParseCallbackData(c.Callback())
	return key
}

// CallbackPayload returns the payload of the current callback.
func CallbackPayload(c tele.Context) string {
	_, payload := ParseCallbackData(c.Callback())
	return payload
}

const answeredKey = "cb_answered"

// Answer responds to the current callback with a short notification and
// marks it answered so the router does not answer it again.
func Answer(c tele.Context, text string) error {
	c.Set(answeredKey, true)
	if text == "" {
		return c.Respond()
	}
	return c.Respond(&tele.CallbackResponse{Text: text})
}

// Answered reports whether Answer was called for the current update.
func Answered(c tele.Context) bool {
	ok, _ := c.Get(answeredKey).(bool)
	return ok
}
