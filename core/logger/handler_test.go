package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, format logFormat, ctx context.Context, component, event string, attrs ...slog.Attr) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{
		level:    slog.LevelDebug,
		writer:   aw,
		format:   format,
		keyOrder: append([]string(nil), defaultKeyOrder...),
	})
	LogEvent(ctx, slog.New(h).With("component", component), slog.LevelInfo, event, attrs...)
	require.NoError(t, aw.Flush())
	require.NoError(t, aw.Close())
	return strings.TrimSpace(buf.String())
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-123")
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	line := render(t, formatKV, ctx, "service.sessions", "session.started",
		slog.String("status", "OK"),
		slog.String("split", "legs"),
		slog.String("cause", "unit"),
	)
	tokens := strings.Split(line, " ")
	expected := []string{"ts=", "level=INFO", "component=service.sessions", "event=session.started", "status=ok", "rid=rid-123", "update_id=42", "user_id=7", "chat_id=9", "split=legs"}
	require.GreaterOrEqual(t, len(tokens), len(expected), line)
	for i, prefix := range expected {
		assert.True(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, want prefix %s", i, tokens[i], prefix)
	}
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithRID(context.Background(), "rid-json")
	line := render(t, formatJSON, ctx, "store", "store.failed",
		slog.String("status", "fail"),
		slog.String("err", "boom"),
		slog.Duration("duration", 1500*time.Microsecond),
	)
	require.True(t, strings.HasPrefix(line, "{"), line)

	prefixes := []string{`{"ts":`, `"level":"INFO"`, `"component":"store"`, `"event":"store.failed"`, `"status":"fail"`, `"rid":"rid-json"`, `"duration_ms":2`, `"err":"boom"`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		require.Greater(t, idx, pos, "prefix %s out of order in %s", pref, line)
		pos = idx
	}
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	raw := BuildRID(123, 456, 789)
	ctx := WithRID(context.Background(), raw)

	kv := render(t, formatKV, ctx, "app", "rid.test")
	assert.Contains(t, kv, "rid="+CompactRID(raw))
	assert.NotContains(t, kv, "rid_full=")

	js := render(t, formatJSON, ctx, "app", "rid.test")
	assert.Contains(t, js, `"rid":"`+CompactRID(raw)+`"`)
	assert.Contains(t, js, `"rid_full":"`+raw+`"`)
	assert.Contains(t, js, `"ts_unix_nano"`)
}

func TestStructuredHandlerDropsUnknownOutcome(t *testing.T) {
	line := render(t, formatKV, context.Background(), "", "x",
		slog.String("outcome", "weird"),
		slog.String("note", "two words"),
	)
	assert.NotContains(t, line, "outcome=")
	assert.Contains(t, line, "component=app")
	assert.Contains(t, line, `note="two words"`)
}

func TestCompactRID(t *testing.T) {
	assert.Equal(t, "a.b.c", CompactRID("10:11:12"))
	assert.Equal(t, "not-a-rid", CompactRID("not-a-rid"))
	assert.Equal(t, "1:x:3", CompactRID("1:x:3"))
}

func TestRatioSampler(t *testing.T) {
	s := newRatioSampler(1, 3)
	got := []bool{s.Allow(), s.Allow(), s.Allow(), s.Allow()}
	assert.Equal(t, []bool{true, false, false, true}, got)

	s.Set(0, 0)
	assert.True(t, s.Allow())

	num, den := parseRatioSpec("2/10")
	assert.Equal(t, [2]int{2, 10}, [2]int{num, den})
	num, den = parseRatioSpec("20")
	assert.Equal(t, [2]int{1, 20}, [2]int{num, den})
}

func TestHelpersAreNoopsWithoutInit(t *testing.T) {
	require.Nil(t, L)
	assert.NotPanics(t, func() {
		Info(context.Background(), "service.sessions", "noop")
		LogEvent(context.Background(), nil, slog.LevelError, "noop")
	})
	assert.Nil(t, Component("x"))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "ab\tc", Sanitize("a\x00b\tc\u200b"))
	assert.Equal(t, "при", SanitizeLimit("привет", 3))
	assert.Empty(t, SanitizeLimit("x", 0))
}
