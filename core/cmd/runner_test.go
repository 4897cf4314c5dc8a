package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/gymbot/core/config"
	coretelegram "github.com/m3rciful/gymbot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct {
	closed bool
}

func (a *app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	return coretelegram.RunOptions{}, nil
}

func (a *app) Close() error {
	a.closed = true
	return nil
}

func TestRunWiresLifecycle(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("GYMBOT_TEST_VALUE=from-dotenv\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("GYMBOT_TEST_VALUE") })

	a := &app{}
	var loadedPath string
	started := false
	err := Run(Options{
		ConfigEnvVar:      "GYMBOT_TEST_CONFIG",
		DefaultConfigPath: "config.yaml",
		EnvFiles:          []string{envFile, filepath.Join(dir, "missing.env")},
		LoadConfig: func(path string) (ConfigCarrier, error) {
			loadedPath = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return a, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			require.NoError(t, opts.OnStart(ctx, coretelegram.Runtime{}))
			started = true
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "config.yaml", loadedPath)
	assert.Equal(t, "from-dotenv", os.Getenv("GYMBOT_TEST_VALUE"))
	assert.True(t, started)
	assert.True(t, a.closed)
}

func TestRunRequiresHooks(t *testing.T) {
	assert.Error(t, Run(Options{}))

	err := Run(Options{
		EnvFiles: []string{filepath.Join(t.TempDir(), "none.env")},
		LoadConfig: func(string) (ConfigCarrier, error) {
			return nil, errors.New("broken yaml")
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) { return &app{}, nil },
	})
	assert.Error(t, err)
}
