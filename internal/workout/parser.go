package workout

import (
	"regexp"
	"strconv"
	"strings"
)

// Line is the classification of one input line: ExerciseLine or SetLine.
type Line interface {
	isLine()
}

// ExerciseLine selects the exercise that receives the following sets.
type ExerciseLine struct {
	Name string
}

// SetLine carries one set entry for the current exercise.
type SetLine struct {
	Entry SetEntry
}

func (ExerciseLine) isLine() {}
func (SetLine) isLine()      {}

var (
	lettersRe = regexp.MustCompile(`[A-Za-zА-Яа-яЁё]`)
	digitsRe  = regexp.MustCompile(`[0-9]`)

	// Spaces are matched as [\s\p{Zs}] since RE2 \s misses U+00A0.
	// 7.5x20, 7,5 х 20, 60×8
	weightTimesRe = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)[\s\p{Zs}]*[xх×][\s\p{Zs}]*([0-9]+)\b`)
	// 54 на 15
	weightOnRe = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)[\s\p{Zs}]*на[\s\p{Zs}]*([0-9]+)\b`)
	// 4 подхода по 12
	setsOfRe = regexp.MustCompile(`([0-9]+)[\s\p{Zs}]*подход[а-я]*[\s\p{Zs}]*по[\s\p{Zs}]*([0-9]+)\b`)
	// 4 12
	twoNumbersRe = regexp.MustCompile(`^([0-9]+)[\s\p{Zs}]+([0-9]+)\b`)
)

// ParseLine classifies a line of free text. It never fails: input that
// matches no pattern is kept verbatim as a RawSet.
func ParseLine(text string) Line {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SetLine{Entry: RawSet{Text: text}}
	}

	hasLetters := lettersRe.MatchString(trimmed)
	hasDigits := digitsRe.MatchString(trimmed)

	if hasLetters && !hasDigits {
		return ExerciseLine{Name: normalizeName(trimmed)}
	}

	if m := weightTimesRe.FindStringSubmatch(trimmed); m != nil {
		if entry, ok := weightReps(m[1], m[2], trimmed); ok {
			return SetLine{Entry: entry}
		}
	}
	if m := weightOnRe.FindStringSubmatch(trimmed); m != nil {
		if entry, ok := weightReps(m[1], m[2], trimmed); ok {
			return SetLine{Entry: entry}
		}
	}
	if m := setsOfRe.FindStringSubmatch(trimmed); m != nil {
		if entry, ok := setsReps(m[1], m[2], trimmed); ok {
			return SetLine{Entry: entry}
		}
	}
	if !hasLetters {
		if m := twoNumbersRe.FindStringSubmatch(trimmed); m != nil {
			if entry, ok := setsReps(m[1], m[2], trimmed); ok {
				return SetLine{Entry: entry}
			}
		}
	}

	if hasLetters && hasDigits {
		return SetLine{Entry: ParsedSet{Note: trimmed, Text: trimmed}}
	}
	return SetLine{Entry: RawSet{Text: trimmed}}
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func weightReps(w, r, raw string) (ParsedSet, bool) {
	weight, err := strconv.ParseFloat(strings.Replace(w, ",", ".", 1), 64)
	if err != nil {
		return ParsedSet{}, false
	}
	reps, err := strconv.Atoi(r)
	if err != nil {
		return ParsedSet{}, false
	}
	return ParsedSet{Weight: &weight, Reps: &reps, Text: raw}, true
}

func setsReps(s, r, raw string) (ParsedSet, bool) {
	sets, err := strconv.Atoi(s)
	if err != nil {
		return ParsedSet{}, false
	}
	reps, err := strconv.Atoi(r)
	if err != nil {
		return ParsedSet{}, false
	}
	return ParsedSet{Sets: &sets, Reps: &reps, Text: raw}, true
}
