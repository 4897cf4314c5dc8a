package router

import (
	"context"
	"log/slog"

	"github.com/m3rciful/gymbot/core/logger"
	tg "github.com/m3rciful/gymbot/core/telegram"
	"github.com/m3rciful/gymbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered command and alias to its handler,
// wrapped with the recover and logging middleware.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		name := normalizeHandlerName(cmd)
		inner := def.Handler
		h := func(c tele.Context) error {
			return handleWithSummary(c, name, nowFunc(), func() error { return inner(c) })
		}
		h = middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
		routes = append(routes, tg.Route{Endpoint: cmd, Handler: h})
		for _, alias := range def.Aliases {
			if alias == "" {
				continue
			}
			if alias[0] != '/' {
				alias = "/" + alias
			}
			routes = append(routes, tg.Route{Endpoint: alias, Handler: h})
		}
	}

	logger.Info(context.Background(), "tg.wire", "complete",
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
