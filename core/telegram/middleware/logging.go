package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// recentUpdates remembers processed update ids for keepFor.
var (
	recentMu      sync.Mutex
	recentUpdates = make(map[int]time.Time)
	keepFor       = 10 * time.Second
)

func alreadyLogged(updateID int) bool {
	now := time.Now()
	recentMu.Lock()
	defer recentMu.Unlock()
	for id, ts := range recentUpdates {
		if now.Sub(ts) > keepFor {
			delete(recentUpdates, id)
		}
	}
	if _, ok := recentUpdates[updateID]; ok {
		return true
	}
	recentUpdates[updateID] = now
	return false
}

// LoggerMiddleware sets the request id and logs one receipt line per update.
// Receipts are deduplicated by update id because the middleware runs both
// globally and on individual routes.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		if _, ok := tghelpers.ContextFrom(c); ok {
			return next(c)
		}

		var chatID, userID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		user := c.Sender()
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		ctx := logger.WithRID(context.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		if logger.ShouldSampleDebug() && !alreadyLogged(upd.ID) {
			attrs := []slog.Attr{slog.String("status", "ok")}
			if chat := c.Chat(); chat != nil {
				attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
			}
			if user != nil && user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
			switch {
			case upd.Callback != nil:
				key, payload := callbacks.ParseCallbackData(upd.Callback)
				if key != "" {
					attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
				}
				if payload != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(payload, 256)))
				}
			case upd.Message != nil:
				if t := c.Text(); t != "" {
					attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
				}
			}
			logger.Debug(ctx, "tg", "update.received", attrs...)
		}

		return next(c)
	}
}
