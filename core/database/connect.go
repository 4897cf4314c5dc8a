package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m3rciful/gymbot/core/logger"
)

// Connect opens the configured database, sizes the pool and verifies connectivity.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverPostgres:
		if err := WaitForPostgres(ctx, cfg.DSN(), 30*time.Second); err != nil {
			return nil, err
		}
	case DriverSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("db connect: create %s: %w", dir, err)
			}
		}
	default:
		return nil, fmt.Errorf("db connect: unsupported driver %q", cfg.Driver)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, cfg.Driver, cfg.DSN())
	took := logger.Took(start)
	if err != nil {
		logger.Error(ctx, "db", "db.connect",
			slog.String("status", "fail"),
			slog.String("driver", cfg.Driver),
			slog.String("host", cfg.Host),
			slog.String("db", target(cfg)),
			slog.Duration("duration", took),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pool := cfg.MaxConnections
	if cfg.Driver == DriverSQLite {
		// one writer at a time; extra connections only produce SQLITE_BUSY
		pool = 1
	}
	if pool > 0 {
		db.SetMaxOpenConns(pool)
		db.SetMaxIdleConns(pool)
	}

	logger.Info(ctx, "db", "db.connect",
		slog.String("status", "ok"),
		slog.String("driver", cfg.Driver),
		slog.String("host", cfg.Host),
		slog.String("db", target(cfg)),
		slog.Int("pool_open", pool),
		slog.Duration("duration", took),
	)
	return db, nil
}

func target(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path
	}
	return cfg.Name
}

// WaitForPostgres pings dsn every two seconds until it answers or timeout passes.
func WaitForPostgres(ctx context.Context, dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := pingOnce(ctx, dsn)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout reached waiting for database: %w", err)
		}
		logger.Debug(ctx, "db", "db.wait", slog.String("err", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func pingOnce(ctx context.Context, dsn string) error {
	db, err := sql.Open(DriverPostgres, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}
