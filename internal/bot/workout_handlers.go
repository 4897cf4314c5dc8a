package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m3rciful/gymbot/core/logger"
	"github.com/m3rciful/gymbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/gymbot/core/telegram/helpers"
	"github.com/m3rciful/gymbot/internal/workout"

	tele "gopkg.in/telebot.v4"
)

const component = "bot"

// onStart handles /w [date].
func (h *Handlers) onStart(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "w")
	chatID := tghelpers.ChatID(c)
	if chatID == 0 {
		return nil
	}

	date := workout.Today(h.now().In(h.loc))
	if arg := strings.TrimSpace(c.Message().Payload); arg != "" {
		parsed, ok := tghelpers.ParseISODate(arg, h.loc)
		if !ok {
			return h.msg.Reply(c, msgBadStartDate)
		}
		date = parsed
	}

	sess, err := h.sessions.Start(ctx, chatID, date)
	if err != nil {
		return h.fail(c, err)
	}
	h.dialogs.Clear(chatID)

	cardID, err := h.msg.Send(c, CardHTML(sess), SplitKeyboard())
	if err != nil {
		return err
	}
	if _, err := h.sessions.SetCardMessageID(ctx, chatID, cardID); err != nil {
		return h.fail(c, err)
	}
	return h.msg.Reply(c, msgChooseSplit)
}

// onDate handles /date <date>.
func (h *Handlers) onDate(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "date")
	chatID := tghelpers.ChatID(c)

	if _, err := h.sessions.Get(ctx, chatID); err != nil {
		if errors.Is(err, workout.ErrNotApplicable) {
			return h.msg.Reply(c, msgNoSession)
		}
		return h.fail(c, err)
	}
	date, ok := tghelpers.ParseISODate(c.Message().Payload, h.loc)
	if !ok {
		return h.msg.Reply(c, msgBadSetDate)
	}
	sess, err := h.sessions.SetDate(ctx, chatID, date)
	if errors.Is(err, workout.ErrNotApplicable) {
		return h.msg.Reply(c, msgNoSession)
	}
	if err != nil {
		return h.fail(c, err)
	}
	h.editCard(ctx, c, chatID, sess)
	return nil
}

// onDone handles /done.
func (h *Handlers) onDone(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "done")
	w, ok, err := h.finalize(ctx, c)
	if err != nil {
		return h.fail(c, err)
	}
	if !ok {
		return h.msg.Reply(c, msgNothingToEnd)
	}
	h.publish(ctx, c, w)
	return nil
}

// onCancel handles /cancel for both the workout and the trainings dialog.
func (h *Handlers) onCancel(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "cancel")
	chatID := tghelpers.ChatID(c)

	_, err := h.sessions.Get(ctx, chatID)
	hadSession := err == nil
	if err != nil && !errors.Is(err, workout.ErrNotApplicable) {
		return h.fail(c, err)
	}
	if err := h.sessions.Cancel(ctx, chatID); err != nil {
		return h.fail(c, err)
	}

	hadDialog := h.dialogs.InProgress(chatID)
	h.dialogs.Clear(chatID)

	switch {
	case hadSession:
		return h.msg.Reply(c, msgCancelled)
	case hadDialog:
		return h.msg.Text(c, msgTrainingCancelled)
	}
	return h.msg.Reply(c, msgNoActive)
}

// onSplitCallback handles split|<split>.
func (h *Handlers) onSplitCallback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "callback.split")
	split, err := workout.ParseSplit(callbacks.CallbackPayload(c))
	if err != nil {
		return callbacks.Answer(c, "Неизвестный тип")
	}
	handled, err := h.chooseSplit(ctx, c, split)
	if err != nil {
		_ = callbacks.Answer(c, "")
		return h.fail(c, err)
	}
	if !handled {
		return callbacks.Answer(c, "Нет активной тренировки")
	}
	return callbacks.Answer(c, "Тип выбран")
}

// onWorkoutCallback handles workout|done and workout|cancel.
func (h *Handlers) onWorkoutCallback(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "callback.workout")
	chatID := tghelpers.ChatID(c)

	switch callbacks.CallbackPayload(c) {
	case actionDone:
		w, ok, err := h.finalize(ctx, c)
		if err != nil {
			_ = callbacks.Answer(c, "")
			return h.fail(c, err)
		}
		if !ok {
			return callbacks.Answer(c, "Нечего завершать")
		}
		if m := c.Message(); m != nil {
			if err := h.msg.ClearMarkup(c, chatID, m.ID); err != nil {
				logger.Debug(ctx, component, "card.clear_failed", slog.String("err", err.Error()))
			}
		}
		h.publish(ctx, c, w)
		return callbacks.Answer(c, "Сохранено")

	case actionCancel:
		if err := h.sessions.Cancel(ctx, chatID); err != nil {
			_ = callbacks.Answer(c, "")
			return h.fail(c, err)
		}
		if m := c.Message(); m != nil {
			if err := h.msg.Edit(c, chatID, m.ID, msgCancelled, nil); err != nil {
				logger.Warn(ctx, component, "card.edit_failed", slog.String("err", err.Error()))
			}
		}
		return callbacks.Answer(c, "Отменено")
	}
	return callbacks.Answer(c, "")
}

// onWorkoutText receives text while a session exists.
func (h *Handlers) onWorkoutText(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "workout.text")
	chatID := tghelpers.ChatID(c)
	text := strings.TrimSpace(c.Text())
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		return h.msg.Text(c, msgUnknownCommand)
	}

	sess, err := h.sessions.Get(ctx, chatID)
	if errors.Is(err, workout.ErrNotApplicable) {
		return nil
	}
	if err != nil {
		return h.fail(c, err)
	}

	if sess.Step == workout.StepChooseSplit {
		split, ok := workout.DetectSplit(text)
		if !ok {
			return h.msg.Reply(c, msgChooseSplit)
		}
		if _, err := h.chooseSplit(ctx, c, split); err != nil {
			return h.fail(c, err)
		}
		return nil
	}

	next, err := h.sessions.AddLine(ctx, chatID, text)
	if errors.Is(err, workout.ErrNotApplicable) {
		return nil
	}
	if err != nil {
		return h.fail(c, err)
	}
	h.editCard(ctx, c, chatID, next)
	return nil
}

// chooseSplit applies split and sends the input hint. It reports false
// when the chat has no session.
func (h *Handlers) chooseSplit(ctx context.Context, c tele.Context, split workout.Split) (bool, error) {
	chatID := tghelpers.ChatID(c)
	sess, err := h.sessions.ChooseSplit(ctx, chatID, split)
	if errors.Is(err, workout.ErrNotApplicable) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	h.editCard(ctx, c, chatID, sess)
	return true, h.msg.Reply(c, msgInputHint)
}

// finalize reports false when there was nothing to finish.
func (h *Handlers) finalize(ctx context.Context, c tele.Context) (workout.Workout, bool, error) {
	w, err := h.sessions.Finalize(ctx, tghelpers.ChatID(c))
	if errors.Is(err, workout.ErrNotApplicable) {
		return workout.Workout{}, false, nil
	}
	if err != nil {
		return workout.Workout{}, false, err
	}
	return w, true, nil
}

// publish sends the finished workout to the chat and to the manager chat.
func (h *Handlers) publish(ctx context.Context, c tele.Context, w workout.Workout) {
	message := WorkoutHTML(w)
	if err := h.msg.Reply(c, message); err != nil {
		logger.Warn(ctx, component, "workout.reply_failed", slog.String("err", err.Error()))
	}
	if h.managerChatID == 0 {
		return
	}
	if err := h.msg.SendTo(c, h.managerChatID, message); err != nil {
		logger.Warn(ctx, component, "workout.forward_failed",
			slog.Int64("manager_chat_id", h.managerChatID),
			slog.String("err", err.Error()),
		)
	}
}

// editCard refreshes the live card. A missing or deleted card is not an error.
func (h *Handlers) editCard(ctx context.Context, c tele.Context, chatID int64, s workout.Session) {
	if !s.HasCard() {
		return
	}
	if err := h.msg.Edit(c, chatID, s.CardMessageID, CardHTML(s), cardKeyboard(s)); err != nil {
		logger.Warn(ctx, component, "card.edit_failed",
			slog.Int("message_id", s.CardMessageID),
			slog.String("err", err.Error()),
		)
	}
}

// fail tells the user the action failed and returns err for the handler summary.
func (h *Handlers) fail(c tele.Context, err error) error {
	_ = h.msg.Reply(c, msgFailed)
	return err
}
