package callbacks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		name    string
		cb      *tele.Callback
		key     string
		payload string
	}{
		{"nil", nil, "", ""},
		{"encoded", &tele.Callback{Data: "\fsplit|legs"}, "split", "legs"},
		{"no payload", &tele.Callback{Data: "\fworkout"}, "workout", ""},
		{"plain", &tele.Callback{Data: "workout|done"}, "workout", "done"},
		{"matched", &tele.Callback{Unique: "split", Data: "arms"}, "split", "arms"},
		{"payload with bar", &tele.Callback{Data: "\fx|a|b"}, "x", "a|b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, payload := ParseCallbackData(tc.cb)
			assert.Equal(t, tc.key, key)
			assert.Equal(t, tc.payload, payload)
		})
	}
}
