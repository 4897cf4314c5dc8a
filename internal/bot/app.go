package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/gymbot/core/bootstrap"
	"github.com/m3rciful/gymbot/core/logger"
	tg "github.com/m3rciful/gymbot/core/telegram"
	"github.com/m3rciful/gymbot/core/telegram/router"
	"github.com/m3rciful/gymbot/core/telegram/ui"
	"github.com/m3rciful/gymbot/internal/config"
	"github.com/m3rciful/gymbot/internal/storage/jsonfile"
	"github.com/m3rciful/gymbot/internal/storage/sqlstore"
	"github.com/m3rciful/gymbot/internal/trainings"
	"github.com/m3rciful/gymbot/internal/workout"
	"github.com/m3rciful/gymbot/migrations"

	tele "gopkg.in/telebot.v4"
)

var _ ui.FallbackProvider = (*Handlers)(nil)

// App is the assembled bot: storage, services and Telegram wiring.
type App struct {
	cfg      *config.Config
	infra    *bootstrap.Result
	handlers *Handlers
}

// Stores groups the repositories selected by storage.driver.
type Stores struct {
	Sessions  workout.SessionRepository
	Workouts  workout.WorkoutRepository
	Trainings trainings.Repository
}

// New initializes logging and storage and builds the handlers.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bot: nil config")
	}
	infra, err := bootstrap.Run(ctx, bootstrap.Options{
		Config:     cfg.CoreConfig(),
		Database:   cfg.Database,
		Migrations: migrations.FS,
	})
	if err != nil {
		return nil, err
	}

	stores := OpenStores(cfg, infra)
	handlers := NewHandlers(Deps{
		Sessions:      workout.NewService(stores.Sessions, stores.Workouts),
		Trainings:     trainings.NewFlow(stores.Trainings),
		ManagerChatID: cfg.Workout.ManagerChatID,
		Location:      cfg.Workout.Location(),
	})

	logger.Info(ctx, "app", "storage",
		slog.String("driver", cfg.Storage.Driver),
		slog.String("timezone", cfg.Workout.Timezone),
		slog.Bool("manager_forward", cfg.Workout.ManagerChatID != 0),
	)
	return &App{cfg: cfg, infra: infra, handlers: handlers}, nil
}

// OpenStores picks SQL repositories when a database is open and the
// in-process ones plus the trainings JSON file otherwise.
func OpenStores(cfg *config.Config, infra *bootstrap.Result) Stores {
	if infra != nil && infra.DB != nil {
		return Stores{
			Sessions:  sqlstore.NewSessions(infra.DB),
			Workouts:  sqlstore.NewWorkouts(infra.DB),
			Trainings: sqlstore.NewTrainings(infra.DB),
		}
	}
	return Stores{
		Sessions:  workout.NewMemorySessions(),
		Workouts:  workout.NewMemoryWorkouts(),
		Trainings: trainings.NewJSONRepository(jsonfile.New(cfg.Storage.DataDir)),
	}
}

// TelegramRunOptions assembles the registry, middleware and routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	if err := a.handlers.Register(reg); err != nil {
		return tg.RunOptions{}, fmt.Errorf("bot: register handlers: %w", err)
	}
	reg.SetCallbackNotFound(a.handlers.UnknownCallback())

	core := a.cfg.CoreConfig()
	routes := router.CommandRoutes(reg)
	routes = append(routes,
		router.CallbackRoute(reg, router.CallbackOptions{NotFound: a.handlers.UnknownCallback()}),
		router.TextRoute(a.handlers.Dialogs(), reg, router.TextOptions{UnknownText: a.handlers.UnknownText()}),
	)

	return tg.RunOptions{
		Config:   core,
		Registry: reg,
		Middlewares: tg.DefaultMiddlewares(core, func(c tele.Context) error {
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: "Слишком часто"})
			}
			return nil
		}),
		Routes: routes,
	}, nil
}

// Close releases the database, if any.
func (a *App) Close() error {
	return a.infra.Close()
}
