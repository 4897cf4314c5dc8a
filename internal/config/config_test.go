package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/gymbot/core/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "telegram:\n  token: \"123:abc\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.CoreConfig().Telegram.Token)
	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Empty(t, cfg.Database.Driver)
	assert.NotNil(t, cfg.Workout.Location())
	assert.Zero(t, cfg.Workout.ManagerChatID)
}

func TestLoadSQLite(t *testing.T) {
	body := `
telegram:
  token: "123:abc"
storage:
  driver: SQLite
  data_dir: /var/lib/gymbot
workout:
  manager_chat_id: -100500
  timezone: Europe/Moscow
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join("/var/lib/gymbot", "gymbot.db"), cfg.Database.Path)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, int64(-100500), cfg.Workout.ManagerChatID)
	assert.Equal(t, "Europe/Moscow", cfg.Workout.Location().String())
}

func TestLoadPostgres(t *testing.T) {
	body := `
telegram:
  token: "123:abc"
storage:
  driver: postgres
database:
  user: gym
  name: gym
`
	cfg, err := Load(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Contains(t, cfg.Database.DSN(), "dbname=gym")
}

func TestEnvOverridesStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("MANAGER_CHAT_ID", "42")
	cfg, err := Load(writeConfig(t, "telegram:\n  token: \"123:abc\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, int64(42), cfg.Workout.ManagerChatID)
}

func TestNormalizeRejects(t *testing.T) {
	cases := []string{
		"telegram:\n  token: \"1:a\"\nstorage:\n  driver: redis\n",
		"telegram:\n  token: \"1:a\"\nstorage:\n  driver: postgres\n",
		"telegram:\n  token: \"1:a\"\nworkout:\n  timezone: Mars/Olympus\n",
		"storage:\n  driver: memory\n",
	}
	for _, body := range cases {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}
