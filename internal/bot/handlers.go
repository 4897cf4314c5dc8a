// Package bot binds the workout and trainings services to Telegram commands,
// callbacks and text messages.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/gymbot/core/logger"
	tg "github.com/m3rciful/gymbot/core/telegram"
	"github.com/m3rciful/gymbot/core/telegram/commands"
	"github.com/m3rciful/gymbot/core/telegram/router"
	"github.com/m3rciful/gymbot/core/telegram/state"
	"github.com/m3rciful/gymbot/internal/trainings"
	"github.com/m3rciful/gymbot/internal/workout"

	tele "gopkg.in/telebot.v4"
)

// Deps are the collaborators of Handlers. Msg, Dialogs, Now and Location
// have defaults.
type Deps struct {
	Sessions      *workout.Service
	Trainings     *trainings.Flow
	Msg           Messenger
	Dialogs       state.Manager
	ManagerChatID int64
	Location      *time.Location
	Now           func() time.Time
}

// Handlers holds the Telegram handlers of the bot.
type Handlers struct {
	sessions      *workout.Service
	trainings     *trainings.Flow
	msg           Messenger
	dialogs       state.Manager
	managerChatID int64
	loc           *time.Location
	now           func() time.Time
}

// NewHandlers fills defaults for the optional dependencies.
func NewHandlers(d Deps) *Handlers {
	h := &Handlers{
		sessions:      d.Sessions,
		trainings:     d.Trainings,
		msg:           d.Msg,
		dialogs:       d.Dialogs,
		managerChatID: d.ManagerChatID,
		loc:           d.Location,
		now:           d.Now,
	}
	if h.msg == nil {
		h.msg = telegramMessenger{}
	}
	if h.dialogs == nil {
		h.dialogs = state.NewMemoryManager()
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.dialogs.Handle(stateAwaitingCount, h.onTrainingCount)
	return h
}

// Register adds commands, callbacks and the text fallback to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	reg.RegisterCommand("/w", commands.Command{Handler: h.onStart, Description: "Начать тренировку: /w [ДД.ММ.ГГГГ]", Aliases: []string{"/workout"}})
	reg.RegisterCommand("/date", commands.Command{Handler: h.onDate, Description: "Изменить дату: /date ДД.ММ.ГГГГ"})
	reg.RegisterCommand("/done", commands.Command{Handler: h.onDone, Description: "Завершить тренировку"})
	reg.RegisterCommand("/cancel", commands.Command{Handler: h.onCancel, Description: "Отменить текущее действие"})
	reg.RegisterCommand("/list", commands.Command{Handler: h.onList, Description: "Счётчики тренировок"})
	reg.RegisterCommand("/help", commands.Command{Handler: h.helpHandler(reg), Description: "Справка"})
	reg.RegisterCommand("/start", commands.Command{Handler: h.helpHandler(reg), Description: "Справка", Hidden: true})

	if err := reg.RegisterCallback(cbSplit, h.onSplitCallback); err != nil {
		return err
	}
	if err := reg.RegisterCallback(cbWorkout, h.onWorkoutCallback); err != nil {
		return err
	}
	reg.SetTextFallback(h.onTrainingName)
	return nil
}

// Dialogs returns the chat dialogs in routing priority order: the workout
// session first, then the trainings counter.
func (h *Handlers) Dialogs() []router.FSM {
	return []router.FSM{workoutDialog{h: h}, h.dialogs}
}

func (h *Handlers) helpHandler(reg *tg.Registry) tele.HandlerFunc {
	return func(c tele.Context) error {
		var b strings.Builder
		b.WriteString("Дневник тренировок.\n\n")
		for _, cmd := range reg.ListCommands(true) {
			fmt.Fprintf(&b, "/%s - %s\n", cmd.Text, cmd.Description)
		}
		b.WriteString("\nБез активной тренировки название и число пополняют счётчик.")
		return h.msg.Text(c, b.String())
	}
}

// UnknownText implements ui.FallbackProvider.
func (h *Handlers) UnknownText() tele.HandlerFunc {
	return func(c tele.Context) error { return h.msg.Text(c, msgUnknownCommand) }
}

// UnknownCallback implements ui.FallbackProvider.
func (h *Handlers) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестное действие"})
	}
}

// workoutDialog claims chat text while a workout session exists.
type workoutDialog struct{ h *Handlers }

// InProgress also claims the text when the session store fails, so workout
// lines are answered with an error instead of reaching the trainings counter.
func (d workoutDialog) InProgress(chatID int64) bool {
	ctx := context.Background()
	_, err := d.h.sessions.Get(ctx, chatID)
	if err == nil {
		return true
	}
	if errors.Is(err, workout.ErrNotApplicable) {
		return false
	}
	logger.Error(ctx, component, "session.lookup_failed",
		slog.Int64("chat_id", chatID),
		slog.String("err", err.Error()),
	)
	return true
}

func (d workoutDialog) ManagerHandler(c tele.Context) error {
	return d.h.onWorkoutText(c)
}
