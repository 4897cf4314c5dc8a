package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

type contextKey string

const (
	ctxRID      contextKey = "rid"
	ctxUpdateID contextKey = "update_id"
	ctxUserID   contextKey = "user_id"
	ctxChatID   contextKey = "chat_id"
	ctxLogger   contextKey = "logger"
	ctxHandler  contextKey = "handler"
)

func withValue(ctx context.Context, key contextKey, v any) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, v)
}

func valueOf[T any](ctx context.Context, key contextKey) T {
	var zero T
	if ctx == nil {
		return zero
	}
	v, ok := ctx.Value(key).(T)
	if !ok {
		return zero
	}
	return v
}

// WithLogger stores log in ctx for FromContext.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	if log == nil {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withValue(ctx, ctxLogger, log)
}

// FromContext returns the logger stored in ctx or L.
func FromContext(ctx context.Context) *slog.Logger {
	if l := valueOf[*slog.Logger](ctx, ctxLogger); l != nil {
		return l
	}
	return L
}

// WithRID attaches the request correlation id.
func WithRID(ctx context.Context, rid string) context.Context {
	return withValue(ctx, ctxRID, rid)
}

// RIDFrom returns the request correlation id.
func RIDFrom(ctx context.Context) string { return valueOf[string](ctx, ctxRID) }

// WithUpdateMeta attaches the identifiers of a Telegram update.
func WithUpdateMeta(ctx context.Context, updateID int, userID, chatID int64) context.Context {
	ctx = withValue(ctx, ctxUpdateID, updateID)
	ctx = withValue(ctx, ctxUserID, userID)
	return withValue(ctx, ctxChatID, chatID)
}

// WithHandler attaches the handler name for downstream records.
func WithHandler(ctx context.Context, handler string) context.Context {
	if handler == "" {
		if ctx == nil {
			return context.Background()
		}
		return ctx
	}
	return withValue(ctx, ctxHandler, handler)
}

// HandlerFrom returns the handler name.
func HandlerFrom(ctx context.Context) string { return valueOf[string](ctx, ctxHandler) }

// UserIDFrom returns the Telegram user id.
func UserIDFrom(ctx context.Context) int64 { return valueOf[int64](ctx, ctxUserID) }

// ChatIDFrom returns the Telegram chat id.
func ChatIDFrom(ctx context.Context) int64 { return valueOf[int64](ctx, ctxChatID) }

// UpdateIDFrom returns the Telegram update id.
func UpdateIDFrom(ctx context.Context) int { return valueOf[int](ctx, ctxUpdateID) }

// Sanitize drops control and format runes except tab and newline.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeLimit sanitizes s and truncates it to max runes.
func SanitizeLimit(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(Sanitize(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max])
}

// BuildRID formats a correlation id as updateID:chatID:userID.
func BuildRID(updateID int, chatID, userID int64) string {
	return fmt.Sprintf("%d:%d:%d", updateID, chatID, userID)
}

// CompactRID rewrites a BuildRID value as dot-separated base36 segments.
// Anything else is returned unchanged.
func CompactRID(rid string) string {
	rid = strings.TrimSpace(rid)
	parts := strings.Split(rid, ":")
	if len(parts) != 3 {
		return rid
	}
	for i, part := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return rid
		}
		parts[i] = strconv.FormatInt(n, 36)
	}
	return strings.Join(parts, ".")
}
