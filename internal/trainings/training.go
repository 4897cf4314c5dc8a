// Package trainings implements the named counter: the user types a training
// name, then a number, and the number is added to that name's total.
package trainings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// MaxNameLength is counted in runes.
	MaxNameLength = 80
	// MaxCount bounds a single increment.
	MaxCount = 100000

	// TimestampLayout matches what a JavaScript toISOString produces.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

var (
	// ErrInvalidName is returned for names that are blank or too long.
	ErrInvalidName = errors.New("trainings: name must be 1..80 characters")
	// ErrInvalidCount is returned for anything but a positive integer up to MaxCount.
	ErrInvalidCount = errors.New("trainings: count must be a positive integer")
)

// Training is a named running total.
type Training struct {
	ID        string `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Count     int    `json:"count" db:"count"`
	CreatedAt string `json:"createdAt" db:"created_at"`
	UpdatedAt string `json:"updatedAt" db:"updated_at"`
}

// Repository stores trainings. List is sorted by name; UpsertByName
// matches names case-insensitively and creates missing entries.
type Repository interface {
	List(ctx context.Context) ([]Training, error)
	UpsertByName(ctx context.Context, name string, delta int) (Training, error)
}

// ParseName trims raw and checks its length.
func ParseName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength {
		return "", fmt.Errorf("%w: got %d", ErrInvalidName, n)
	}
	return name, nil
}

// ParseCount reads a positive increment from raw.
func ParseCount(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 || n > MaxCount {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCount, raw)
	}
	return n, nil
}

// NameKey is the case-folded form used for matching.
func NameKey(name string) string {
	return strings.ToLower(name)
}

// Timestamp formats t the way stored trainings carry it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// SortByName orders list in place using Russian collation.
func SortByName(list []Training) {
	c := collate.New(language.Russian)
	slices.SortStableFunc(list, func(a, b Training) int {
		return c.CompareString(a.Name, b.Name)
	})
}
