package bot

import (
	"log/slog"
	"strings"

	"github.com/m3rciful/gymbot/core/logger"
	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"
	"github.com/m3rciful/gymbot/core/telegram/state"
	"github.com/m3rciful/gymbot/internal/trainings"

	tele "gopkg.in/telebot.v4"
)

const (
	stateAwaitingCount state.State = "awaiting_count"
	tempTrainingName               = "training"
)

// onList handles /list.
func (h *Handlers) onList(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "list")
	items, err := h.trainings.List(ctx)
	if err != nil {
		return h.fail(c, err)
	}
	return h.msg.Text(c, TrainingsText(items))
}

// onTrainingName starts the counter dialog for text outside any dialog.
func (h *Handlers) onTrainingName(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "training.name")
	text := strings.TrimSpace(c.Text())
	if strings.HasPrefix(text, "/") {
		return h.msg.Text(c, msgUnknownCommand)
	}

	res, err := h.trainings.StartByName(text)
	if trainings.IsInvalidInput(err) {
		return h.msg.Text(c, msgBadTrainingName)
	}
	if err != nil {
		return h.fail(c, err)
	}

	chatID := tghelpers.ChatID(c)
	h.dialogs.SetState(chatID, stateAwaitingCount)
	h.dialogs.SetTemp(chatID, tempTrainingName, res.Name)
	logger.Debug(ctx, component, "training.awaiting_count", slog.String("training", res.Name))
	return h.msg.Text(c, res.Text)
}

// onTrainingCount receives the number for the pending training name.
func (h *Handlers) onTrainingCount(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "training.count")
	chatID := tghelpers.ChatID(c)

	name, ok := h.dialogs.GetTempString(chatID, tempTrainingName)
	if !ok {
		h.dialogs.Clear(chatID)
		return h.onTrainingName(c)
	}

	res, err := h.trainings.SubmitCount(ctx, name, c.Text())
	if trainings.IsInvalidInput(err) {
		h.dialogs.Clear(chatID)
		return h.msg.Text(c, msgBadTrainingName)
	}
	if err != nil {
		return h.fail(c, err)
	}
	if res.Kind == trainings.ResultSaved {
		h.dialogs.Clear(chatID)
	}
	return h.msg.Text(c, res.Text)
}
