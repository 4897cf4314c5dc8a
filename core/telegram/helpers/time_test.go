package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseISODate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{" 2024-3-5 ", "2024-03-05", true},
		{"15.03.2024", "2024-03-15", true},
		{"5.3.2024", "2024-03-05", true},
		{"15.03.24", "2024-03-15", true},
		{"2024-02-30", "", false},
		{"завтра", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseISODate(tc.in, time.UTC)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseFlexibleDateLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*3600)
	got, ok := ParseFlexibleDate("2024-03-15", loc)
	assert.True(t, ok)
	assert.Equal(t, loc, got.Location())
}
