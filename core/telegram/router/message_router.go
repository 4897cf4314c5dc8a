package router

import (
	"time"

	tg "github.com/m3rciful/gymbot/core/telegram"
	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"
	"github.com/m3rciful/gymbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

var nowFunc = time.Now

// FSM is a dialog that claims text messages of a chat while it is active.
type FSM interface {
	InProgress(chatID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the plain text handler. The first FSM in progress for the
// chat receives the message; otherwise commands typed without the bot
// suffix, the registry text fallback and UnknownText are tried in order.
func TextRoute(fsms []FSM, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := nowFunc()
		chatID := tghelpers.ChatID(c)

		for _, fsm := range fsms {
			if fsm != nil && fsm.InProgress(chatID) {
				return handleWithSummary(c, "fsm", start, func() error {
					return fsm.ManagerHandler(c)
				})
			}
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
