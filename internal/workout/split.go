package workout

import (
	"fmt"
	"strings"
)

// Split is a coarse training category.
type Split string

const (
	SplitBackTraps    Split = "back_traps"
	SplitChestCalves  Split = "chest_calves"
	SplitDeadlift     Split = "deadlift"
	SplitShouldersAbs Split = "shoulders_abs"
	SplitLegs         Split = "legs"
	SplitArms         Split = "arms"
)

var splitOrder = []Split{
	SplitBackTraps,
	SplitChestCalves,
	SplitDeadlift,
	SplitShouldersAbs,
	SplitLegs,
	SplitArms,
}

var splitLabels = map[Split]string{
	SplitBackTraps:    "Спина / Шраги",
	SplitChestCalves:  "Грудь / Икры",
	SplitDeadlift:     "Становая",
	SplitShouldersAbs: "Плечи / Пресс",
	SplitLegs:         "Ноги",
	SplitArms:         "Руки",
}

type splitKeywords struct {
	split    Split
	keywords []string
}

// splitTable is matched top to bottom. Deadlift precedes back/traps because
// "тяга становая" also contains "тяга".
var splitTable = []splitKeywords{
	{SplitDeadlift, []string{"становая", "тяга становая"}},
	{SplitBackTraps, []string{"спина", "шраги", "тяга", "верхнего блока", "к поясу", "т-тяга"}},
	{SplitChestCalves, []string{"грудь", "жим", "разводка", "икры", "икронож"}},
	{SplitShouldersAbs, []string{"плечи", "дельты", "махи", "пресс", "скручивания", "планка"}},
	{SplitLegs, []string{"ноги", "присед", "выпады", "квадрицепс", "бедра", "ягодицы"}},
	{SplitArms, []string{"руки", "бицепс", "трицепс", "молот", "сгиб", "разгиб"}},
}

// Splits returns every split in display order.
func Splits() []Split {
	return append([]Split(nil), splitOrder...)
}

// ParseSplit validates a split identifier such as a callback payload.
func ParseSplit(s string) (Split, error) {
	sp := Split(strings.TrimSpace(s))
	if _, ok := splitLabels[sp]; !ok {
		return "", fmt.Errorf("unknown split %q", s)
	}
	return sp, nil
}

// Label returns the human readable name of the split.
func (s Split) Label() string {
	if l, ok := splitLabels[s]; ok {
		return l
	}
	return string(s)
}

// Keywords returns the trigger words registered for the split.
func (s Split) Keywords() []string {
	for _, row := range splitTable {
		if row.split == s {
			return append([]string(nil), row.keywords...)
		}
	}
	return nil
}

// DetectSplit returns the first split whose keyword occurs in text.
// Matching is by substring on the lower-cased input.
func DetectSplit(text string) (Split, bool) {
	normalized := strings.ToLower(text)
	if normalized == "" {
		return "", false
	}
	for _, row := range splitTable {
		for _, k := range row.keywords {
			if strings.Contains(normalized, k) {
				return row.split, true
			}
		}
	}
	return "", false
}
