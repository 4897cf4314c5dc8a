package telegram

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/core/telegram/netutil"
)

const (
	defaultDialTimeout     = 5 * time.Second
	defaultTLSHandshake    = 5 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultRetryAttempts   = 2
	defaultRetryBackoff    = time.Second
	// pollSlack is added on top of the long poll timeout so that getUpdates
	// returns before the client gives up on it.
	pollSlack = 10 * time.Second
)

// HTTPClientOptions tune the Telegram API client.
type HTTPClientOptions struct {
	// PollTimeout is the long poll timeout; response deadlines grow with it.
	PollTimeout time.Duration
	// Retries of zero means the default; negative disables retrying.
	Retries int
	Backoff time.Duration
	// Base replaces the default transport, mostly for tests.
	Base http.RoundTripper
}

// BuildHTTPClient returns a client whose deadlines fit long polling and which
// retries dial failures and timeouts of idempotent-safe requests.
func BuildHTTPClient(opts HTTPClientOptions) *http.Client {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = time.Duration(defaultLongPollTimeout) * time.Second
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	} else if opts.Retries == 0 {
		opts.Retries = defaultRetryAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultRetryBackoff
	}

	deadline := opts.PollTimeout + pollSlack
	base := opts.Base
	if base == nil {
		base = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   defaultTLSHandshake,
			ResponseHeaderTimeout: deadline,
		}
	}

	return &http.Client{
		Timeout:   deadline,
		Transport: &retryTransport{base: base, retries: opts.Retries, backoff: opts.Backoff},
	}
}

type retryTransport struct {
	base    http.RoundTripper
	retries int
	backoff time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	for attempt := 1; err != nil && attempt <= t.retries; attempt++ {
		if !netutil.ShouldRetry(err) {
			return nil, err
		}
		next, cerr := rewind(req)
		if cerr != nil || next == nil {
			return nil, err
		}
		if werr := sleepCtx(req.Context(), t.backoff*time.Duration(attempt)); werr != nil {
			return nil, werr
		}
		logger.Debug(req.Context(), "tg.http", "retry",
			slog.Int("attempt", attempt),
			slog.String("method", path.Base(req.URL.Path)),
			slog.String("err", err.Error()),
		)
		resp, err = t.base.RoundTrip(next)
	}
	return resp, err
}

// rewind clones req with a fresh body. It returns nil when the body cannot
// be replayed.
func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	if req.GetBody == nil {
		return nil, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
