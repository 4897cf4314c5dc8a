package telegram

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/gymbot/core/config"

	tele "gopkg.in/telebot.v4"
)

const defaultLongPollTimeout = 10

// WebhookOptions declares webhook listener settings.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions configures BuildPoller.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns the webhook poller for webhook mode and a long poller otherwise.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.EqualFold(strings.TrimSpace(opts.RunMode), coreconfig.RunModeWebhook) {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}
	return &tele.LongPoller{Timeout: time.Duration(longPollTimeout(opts.LongPollTimeoutSeconds)) * time.Second}
}

func longPollTimeout(seconds int) int {
	if seconds <= 0 {
		return defaultLongPollTimeout
	}
	return seconds
}
