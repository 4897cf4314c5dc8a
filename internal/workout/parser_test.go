package workout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireParsed(t *testing.T, line Line) ParsedSet {
	t.Helper()
	set, ok := line.(SetLine)
	require.True(t, ok, "expected set line, got %T", line)
	parsed, ok := set.Entry.(ParsedSet)
	require.True(t, ok, "expected parsed entry, got %T", set.Entry)
	return parsed
}

func TestParseLineExercise(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "  bench   press ", want: "bench press"},
		{in: "Присед", want: "Присед"},
		{in: "жим  лёжа", want: "жим лёжа"},
		{in: "Тяга\tверхнего блока", want: "Тяга верхнего блока"},
	}
	for _, tc := range cases {
		line := ParseLine(tc.in)
		ex, ok := line.(ExerciseLine)
		require.True(t, ok, "input %q: got %T", tc.in, line)
		assert.Equal(t, tc.want, ex.Name, "input %q", tc.in)
	}
}

func TestParseLineWeightReps(t *testing.T) {
	for _, in := range []string{"7.5x20", "7,5х20", "7,5 × 20", " 7.5 x 20 ", "7,5\u00a0×\u00a020", "7.5\u202fx 20"} {
		p := requireParsed(t, ParseLine(in))
		require.NotNil(t, p.Weight, in)
		require.NotNil(t, p.Reps, in)
		assert.InDelta(t, 7.5, *p.Weight, 1e-9, in)
		assert.Equal(t, 20, *p.Reps, in)
		assert.Nil(t, p.Sets, in)
		assert.Equal(t, strings.TrimSpace(in), p.Text, in)
	}
}

func TestParseLineWeightOn(t *testing.T) {
	p := requireParsed(t, ParseLine("54 на 15"))
	require.NotNil(t, p.Weight)
	require.NotNil(t, p.Reps)
	assert.InDelta(t, 54.0, *p.Weight, 1e-9)
	assert.Equal(t, 15, *p.Reps)

	p = requireParsed(t, ParseLine("54\u00a0на\u00a015"))
	require.NotNil(t, p.Weight)
	assert.InDelta(t, 54.0, *p.Weight, 1e-9)
}

func TestParseLineSetsReps(t *testing.T) {
	for _, in := range []string{"4 подхода по 12", "4 12", "4   12", "4\u00a012", "4\u00a0подхода\u00a0по\u00a012"} {
		p := requireParsed(t, ParseLine(in))
		require.NotNil(t, p.Sets, in)
		require.NotNil(t, p.Reps, in)
		assert.Equal(t, 4, *p.Sets, in)
		assert.Equal(t, 12, *p.Reps, in)
		assert.Nil(t, p.Weight, in)
	}
}

func TestParseLineNote(t *testing.T) {
	p := requireParsed(t, ParseLine("  разминка 10 минут "))
	assert.Equal(t, "разминка 10 минут", p.Note)
	assert.Equal(t, "разминка 10 минут", p.Text)
	assert.Nil(t, p.Weight)
	assert.Nil(t, p.Reps)
	assert.Nil(t, p.Sets)
}

func TestParseLineWordBoundary(t *testing.T) {
	// "8kg" keeps the digit run glued to letters, so no weight/reps match.
	p := requireParsed(t, ParseLine("60x8kg"))
	assert.Nil(t, p.Weight)
	assert.Equal(t, "60x8kg", p.Note)
}

func TestParseLineRaw(t *testing.T) {
	cases := []struct{ in, want string }{
		{in: "42", want: "42"},
		{in: "  ---  ", want: "---"},
		{in: "   ", want: "   "},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		line := ParseLine(tc.in)
		set, ok := line.(SetLine)
		require.True(t, ok, "input %q", tc.in)
		raw, ok := set.Entry.(RawSet)
		require.True(t, ok, "input %q: got %T", tc.in, set.Entry)
		assert.Equal(t, tc.want, raw.Raw())
	}
}
