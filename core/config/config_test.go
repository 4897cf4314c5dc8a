package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
rate_limit:
  interval_ms: 500
  exclude_updates: [" Callback ", ""]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, []string{UpdateCallback}, cfg.RateLimit.ExcludeUpdates)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("TELEGRAM_RUN_MODE", "polling")
	cfg, err := Load(writeConfig(t, "telegram:\n  token: from-file\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeRejects(t *testing.T) {
	cases := map[string]Config{
		"no token":       {},
		"bad mode":       {Telegram: TelegramConfig{Token: "t", RunMode: "push"}},
		"webhook no url": {Telegram: TelegramConfig{Token: "t", RunMode: RunModeWebhook}},
		"bad exclude":    {Telegram: TelegramConfig{Token: "t"}, RateLimit: RateLimitConfig{ExcludeUpdates: []string{"inline_query"}}},
	}
	for name, cfg := range cases {
		cfg := cfg
		assert.Error(t, Normalize(&cfg), name)
	}
}

func TestNormalizeWebhook(t *testing.T) {
	cfg := Config{
		Telegram: TelegramConfig{Token: "t", RunMode: "WEBHOOK"},
		Webhook:  WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443},
	}
	require.NoError(t, Normalize(&cfg))
	assert.Equal(t, RunModeWebhook, cfg.Telegram.RunMode)
}
