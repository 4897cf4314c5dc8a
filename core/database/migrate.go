package database

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/gymbot/core/logger"
)

const component = "db.migrate"

// RunMigrations applies every up migration found under the driver's
// directory of fsys (postgres/ or sqlite/).
func RunMigrations(ctx context.Context, db *sqlx.DB, driver string, fsys fs.FS) error {
	src, err := iofs.New(fsys, driver)
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}

	var target migratedb.Driver
	switch driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(db.DB, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite.WithInstance(db.DB, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		logger.Error(ctx, component, "init", slog.String("driver", driver), slog.String("err", err.Error()))
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if driver == DriverPostgres {
		// the postgres driver pins a pool connection until closed; the
		// sqlite driver would close db itself, so it is left open
		defer m.Close()
	}

	fromVer, _, _ := m.Version()
	start := time.Now()
	upErr := m.Up()
	took := logger.Took(start)

	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		logger.Error(ctx, component, "apply",
			slog.String("status", "fail"),
			slog.String("driver", driver),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("migration execution failed: %w", upErr)
	}

	toVer, dirty, _ := m.Version()
	logger.Info(ctx, component, "summary",
		slog.String("driver", driver),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Bool("dirty", dirty),
		slog.Duration("duration", took),
	)
	return nil
}
