package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

func TestBuildPollerWebhook(t *testing.T) {
	p := BuildPoller(PollerOptions{
		RunMode: "Webhook",
		Webhook: WebhookOptions{Listen: "0.0.0.0", Port: 8443, URL: "https://example.org/hook"},
	})
	wh, ok := p.(*tele.Webhook)
	require.True(t, ok)
	assert.Equal(t, "0.0.0.0:8443", wh.Listen)
	assert.Equal(t, "https://example.org/hook", wh.Endpoint.PublicURL)
}

func TestBuildPollerLongPoll(t *testing.T) {
	p := BuildPoller(PollerOptions{RunMode: "longpoll"})
	lp, ok := p.(*tele.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, lp.Timeout)

	p = BuildPoller(PollerOptions{LongPollTimeoutSeconds: 25})
	assert.Equal(t, 25*time.Second, p.(*tele.LongPoller).Timeout)
}
