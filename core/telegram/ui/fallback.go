// Package ui declares the replies used when an update matches no route.
package ui

import tele "gopkg.in/telebot.v4"

// FallbackProvider exposes handlers used when incoming updates
// cannot be mapped to commands, dialogs or callbacks.
type FallbackProvider interface {
	UnknownText() tele.HandlerFunc
	UnknownCallback() tele.HandlerFunc
}
