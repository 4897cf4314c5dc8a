package telegram

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func dialErr() error {
	return &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
}

func okResponse() *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("{}"))}
}

func TestBuildHTTPClientDeadlineCoversPoll(t *testing.T) {
	c := BuildHTTPClient(HTTPClientOptions{PollTimeout: 30 * time.Second})
	assert.Greater(t, c.Timeout, 30*time.Second)
}

func TestRetryTransportRetriesDialErrors(t *testing.T) {
	calls := 0
	var bodies []string
	c := BuildHTTPClient(HTTPClientOptions{
		Retries: 2,
		Backoff: time.Millisecond,
		Base: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			b, _ := io.ReadAll(r.Body)
			bodies = append(bodies, string(b))
			if calls < 3 {
				return nil, dialErr()
			}
			return okResponse(), nil
		}),
	})

	req, err := http.NewRequest(http.MethodPost, "http://api.test/botX/sendMessage", strings.NewReader("payload"))
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"payload", "payload", "payload"}, bodies)
}

func TestRetryTransportStopsOnPermanentError(t *testing.T) {
	calls := 0
	c := BuildHTTPClient(HTTPClientOptions{
		Backoff: time.Millisecond,
		Base: roundTripFunc(func(*http.Request) (*http.Response, error) {
			calls++
			return nil, errors.New("tls: bad certificate")
		}),
	})
	_, err := c.Get("http://api.test/botX/getMe")
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryTransportHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := BuildHTTPClient(HTTPClientOptions{
		Backoff: time.Hour,
		Base: roundTripFunc(func(*http.Request) (*http.Response, error) {
			cancel()
			return nil, dialErr()
		}),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://api.test/botX/getMe", nil)
	require.NoError(t, err)
	_, err = c.Do(req)
	assert.ErrorIs(t, err, context.Canceled)
}
