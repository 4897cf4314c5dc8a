// Package config loads the gymbot configuration: the shared core sections
// plus storage and workout settings.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	coreconfig "github.com/m3rciful/gymbot/core/config"
	coredatabase "github.com/m3rciful/gymbot/core/database"
)

const (
	// DriverMemory keeps sessions and workouts in process and trainings in a JSON file.
	DriverMemory = "memory"
	// DriverSQLite stores everything in an embedded SQLite file.
	DriverSQLite = coredatabase.DriverSQLite
	// DriverPostgres stores everything in PostgreSQL.
	DriverPostgres = coredatabase.DriverPostgres

	defaultDataDir  = "data"
	defaultSQLite   = "gymbot.db"
	defaultTimezone = "Local"
)

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Driver     string `yaml:"driver" envconfig:"STORAGE_DRIVER"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
}

// WorkoutConfig holds settings of the workout logging flow.
type WorkoutConfig struct {
	// ManagerChatID receives a copy of every finished workout; 0 disables it.
	ManagerChatID int64  `yaml:"manager_chat_id" envconfig:"MANAGER_CHAT_ID"`
	Timezone      string `yaml:"timezone" envconfig:"WORKOUT_TIMEZONE"`

	location *time.Location
}

// Location is the zone used for "today"; valid after Normalize.
func (w WorkoutConfig) Location() *time.Location {
	if w.location == nil {
		return time.Local
	}
	return w.location
}

// Config is the full application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Storage  StorageConfig       `yaml:"storage"`
	Database coredatabase.Config `yaml:"database"`
	Workout  WorkoutConfig       `yaml:"workout"`
}

// CoreConfig exposes the embedded core section.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// Load reads path, overlays the environment and normalizes the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}

	st := &cfg.Storage
	st.Driver = strings.ToLower(strings.TrimSpace(st.Driver))
	if st.Driver == "" {
		st.Driver = DriverMemory
	}
	if strings.TrimSpace(st.DataDir) == "" {
		st.DataDir = defaultDataDir
	}
	switch st.Driver {
	case DriverMemory:
		cfg.Database.Driver = ""
	case DriverSQLite:
		if strings.TrimSpace(st.SQLitePath) == "" {
			st.SQLitePath = filepath.Join(st.DataDir, defaultSQLite)
		}
		cfg.Database.Driver = DriverSQLite
		cfg.Database.Path = st.SQLitePath
	case DriverPostgres:
		db := &cfg.Database
		db.Driver = DriverPostgres
		if db.Host == "" {
			db.Host = "localhost"
		}
		if db.Port == "" {
			db.Port = "5432"
		}
		if db.SSLMode == "" {
			db.SSLMode = "disable"
		}
		if db.Name == "" || db.User == "" {
			return errors.New("database.name and database.user are required for storage.driver 'postgres'")
		}
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: memory, sqlite, postgres", cfg.Storage.Driver)
	}

	tz := strings.TrimSpace(cfg.Workout.Timezone)
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid workout.timezone %q: %w", cfg.Workout.Timezone, err)
	}
	cfg.Workout.Timezone = tz
	cfg.Workout.location = loc
	return nil
}
