package sender

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestDispatcherRunsJobs(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2})
	var ran atomic.Int32
	for range 10 {
		require.NoError(t, d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
			ran.Add(1)
			return nil
		}))
	}
	d.Close()
	assert.Equal(t, int32(10), ran.Load())
	assert.Zero(t, d.ErrorCount())
	assert.ErrorIs(t, d.Enqueue(context.Background(), "x", "", func() error { return nil }), ErrQueueClosed)
	d.Close()
}

func TestDispatcherRetriesDialErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "send.text", "", func() error {
		if calls.Add(1) < 3 {
			return &net.OpError{Op: "dial", Err: errors.New("refused")}
		}
		return nil
	}))
	d.Close()
	assert.Equal(t, int32(3), calls.Load())
	assert.Zero(t, d.ErrorCount())
}

func TestDispatcherCountsFailures(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	require.NoError(t, d.Enqueue(context.Background(), "edit", "", func() error {
		calls.Add(1)
		return errors.New("message is not modified")
	}))
	d.Close()
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, uint64(1), d.ErrorCount())
}

func TestEnqueueRejectsNil(t *testing.T) {
	d := NewDispatcher(Options{})
	defer d.Close()
	assert.Error(t, d.Enqueue(context.Background(), "x", "", nil))
}

func TestSanitizeAndClassify(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123:AA-bb_c/sendMessage": refused`)
	assert.Equal(t, `Post "https://api.telegram.org/bot<redacted>/sendMessage": refused`, SanitizeError(err))
	assert.Empty(t, SanitizeError(nil))

	assert.Equal(t, "timeout", ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, "dial", ClassifyError(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.Equal(t, "dns", ClassifyError(&net.DNSError{Name: "api.telegram.org"}))
	assert.Equal(t, "http_4xx", ClassifyError(&tele.Error{Code: 400, Description: "bad"}))
	assert.Equal(t, "http_5xx", ClassifyError(&tele.Error{Code: 502}))
	assert.Equal(t, "unknown", ClassifyError(errors.New("x")))
}
