package helpers

import (
	"strings"
	"time"
)

var flexibleDateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2.1.06",
}

// ParseFlexibleDate accepts ISO and dotted day-first dates, as typed by
// users, and returns midnight of that day in loc.
func ParseFlexibleDate(input string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range flexibleDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseISODate is ParseFlexibleDate rendered as YYYY-MM-DD.
func ParseISODate(input string, loc *time.Location) (string, bool) {
	t, ok := ParseFlexibleDate(input, loc)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}
