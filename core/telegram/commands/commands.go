package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// Hidden commands are routed but not published in the command menu.
	Hidden  bool
	Aliases []string
}
