package trainings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/gymbot/core/logger"
)

const component = "service.trainings"

// ResultKind tells the caller what to do with the conversation state.
type ResultKind string

const (
	// ResultAskCount means a name was accepted and a count is expected next.
	ResultAskCount ResultKind = "ask_count"
	// ResultSaved means the count was stored and the flow is finished.
	ResultSaved ResultKind = "saved"
	// ResultInvalidCount means the count was rejected and the name is still pending.
	ResultInvalidCount ResultKind = "invalid_count"
)

// Result is a flow outcome plus the reply to send.
type Result struct {
	Kind ResultKind
	Name string
	Text string
}

// Flow drives the name-then-count dialogue.
type Flow struct {
	repo Repository
}

// NewFlow returns a Flow backed by repo.
func NewFlow(repo Repository) *Flow {
	return &Flow{repo: repo}
}

// StartByName validates the name and asks for a count.
func (f *Flow) StartByName(text string) (Result, error) {
	name, err := ParseName(text)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind: ResultAskCount,
		Name: name,
		Text: fmt.Sprintf("Ок. Сколько раз для «%s»? Введите целое число.", name),
	}, nil
}

// SubmitCount adds the count in text to name. An invalid count is a
// result, not an error; the error is reserved for storage failures.
func (f *Flow) SubmitCount(ctx context.Context, name, text string) (Result, error) {
	delta, err := ParseCount(text)
	if err != nil {
		return Result{Kind: ResultInvalidCount, Name: name, Text: "Нужно целое положительное число. Попробуйте ещё раз."}, nil
	}
	name, err = ParseName(name)
	if err != nil {
		return Result{}, err
	}
	updated, err := f.repo.UpsertByName(ctx, name, delta)
	if err != nil {
		return Result{}, fmt.Errorf("add training count: %w", err)
	}
	logger.Info(ctx, component, "training.counted",
		slog.String("training", updated.Name),
		slog.Int("count", updated.Count),
	)
	return Result{
		Kind: ResultSaved,
		Name: updated.Name,
		Text: fmt.Sprintf("Готово: «%s» +%d (итого: %d).", updated.Name, delta, updated.Count),
	}, nil
}

// List returns every training sorted by name.
func (f *Flow) List(ctx context.Context) ([]Training, error) {
	items, err := f.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	return items, nil
}

// IsInvalidInput reports whether err came from name or count validation.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidName) || errors.Is(err, ErrInvalidCount)
}
