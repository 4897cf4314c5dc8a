package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/gymbot/core/telegram/format"
	"github.com/m3rciful/gymbot/internal/trainings"
	"github.com/m3rciful/gymbot/internal/workout"
)

// CardHTML renders the live session card shown while a workout is logged.
func CardHTML(s workout.Session) string {
	split := "не выбран"
	if s.Split != nil {
		split = s.Split.Label()
	}
	lines := []string{
		"<b>ТРЕНИРОВКА</b>",
		"",
		"Дата: " + format.Bold(HumanDate(s.Date)),
		"Тип: " + format.Bold(split),
		"",
	}
	lines = appendExercises(lines, s.Exercises)
	if s.Step == workout.StepCollecting {
		current := s.CurrentExercise
		if current == "" {
			current = "не выбрано"
		}
		lines = append(lines, "<i>Текущее упражнение:</i> "+format.Bold(current))
	}
	return format.Blockquote(strings.Join(lines, "\n"))
}

// WorkoutHTML renders a finished workout.
func WorkoutHTML(w workout.Workout) string {
	lines := []string{
		"<b>Тренировка</b>",
		"Дата: " + format.Bold(HumanDate(w.Date)),
		"Тип: " + format.Bold(w.Split.Label()),
		"",
	}
	return strings.Join(appendExercises(lines, w.Exercises), "\n")
}

func appendExercises(lines []string, exercises []workout.Exercise) []string {
	for _, ex := range exercises {
		lines = append(lines, format.Bold(ex.Name))
		for _, entry := range ex.Sets {
			lines = append(lines, "- "+SetHTML(entry))
		}
		lines = append(lines, "")
	}
	return lines
}

// SetHTML renders one set entry: "60 × 8", "4 подход(а) по 12", the note,
// or the raw text.
func SetHTML(entry workout.SetEntry) string {
	p, ok := entry.(workout.ParsedSet)
	if !ok {
		return format.EscapeHTML(entry.Raw())
	}
	switch {
	case p.Weight != nil && p.Reps != nil:
		return fmt.Sprintf("%s × %d", format.Number(*p.Weight), *p.Reps)
	case p.Sets != nil && p.Reps != nil:
		return fmt.Sprintf("%d подход(а) по %d", *p.Sets, *p.Reps)
	case p.Note != "":
		return format.EscapeHTML(p.Note)
	}
	return format.EscapeHTML(p.Raw())
}

// HumanDate turns YYYY-MM-DD into DD.MM.YYYY. Other input is returned as is.
func HumanDate(iso string) string {
	y, rest, ok := strings.Cut(iso, "-")
	if !ok {
		return iso
	}
	m, d, ok := strings.Cut(rest, "-")
	if !ok {
		return iso
	}
	return d + "." + m + "." + y
}

// TrainingsText renders the /list reply.
func TrainingsText(items []trainings.Training) string {
	if len(items) == 0 {
		return "Список пуст. Отправьте название тренировки текстом, чтобы добавить."
	}
	lines := make([]string, 0, len(items))
	for i, t := range items {
		lines = append(lines, fmt.Sprintf("%d. %s — %d", i+1, t.Name, t.Count))
	}
	return strings.Join(lines, "\n")
}

const (
	msgChooseSplit  = "<b>Выберите тип тренировки</b>"
	msgNoSession    = "<b>Нет активной тренировки</b>\n<i>Начните: /w</i>"
	msgNothingToEnd = "<b>Нечего завершать</b>\n<i>Начните: /w</i>"
	msgCancelled    = "<b>Тренировка отменена</b>"
	msgNoActive     = "<b>Нет активной тренировки</b>"
	msgBadStartDate = "<b>Неверная дата</b>\n<i>Формат: /w 04.12.2025</i>"
	msgBadSetDate   = "<b>Неверная дата</b>\n<i>Формат: /date 04.12.2025</i>"
	msgInputHint    = "<b>Ввод:</b>\n" +
		"1) название упражнения (сообщение без цифр)\n" +
		"2) подходы: <code>7.5х20</code>, <code>54 на 15</code>, <code>4 подхода по 12</code>\n\n" +
		"<i>Завершить: /done</i>"
	msgFailed = "<b>Не удалось выполнить действие</b>\n<i>Попробуйте ещё раз</i>"

	msgTrainingCancelled = "Ок. Действие отменено."
	msgBadTrainingName   = "Название должно содержать от 1 до 80 символов."
	msgUnknownCommand    = "Неизвестная команда. Список команд: /help"
)
