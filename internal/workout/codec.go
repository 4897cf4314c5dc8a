package workout

import (
	"encoding/json"
	"fmt"
)

const (
	kindParsed = "parsed"
	kindRaw    = "raw"
)

type setEntryJSON struct {
	Kind   string   `json:"kind"`
	Weight *float64 `json:"weight,omitempty"`
	Reps   *int     `json:"reps,omitempty"`
	Sets   *int     `json:"sets,omitempty"`
	Note   string   `json:"note,omitempty"`
	Raw    string   `json:"raw"`
}

type exerciseJSON struct {
	Name string         `json:"name"`
	Sets []setEntryJSON `json:"sets"`
}

// MarshalJSON encodes set entries with a "kind" discriminator.
func (e Exercise) MarshalJSON() ([]byte, error) {
	out := exerciseJSON{Name: e.Name, Sets: make([]setEntryJSON, 0, len(e.Sets))}
	for _, entry := range e.Sets {
		switch v := entry.(type) {
		case ParsedSet:
			out.Sets = append(out.Sets, setEntryJSON{
				Kind: kindParsed, Weight: v.Weight, Reps: v.Reps, Sets: v.Sets, Note: v.Note, Raw: v.Text,
			})
		case RawSet:
			out.Sets = append(out.Sets, setEntryJSON{Kind: kindRaw, Raw: v.Text})
		default:
			return nil, fmt.Errorf("workout: unsupported set entry %T", entry)
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the format written by MarshalJSON.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var in exerciseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	sets := make([]SetEntry, 0, len(in.Sets))
	for i, s := range in.Sets {
		switch s.Kind {
		case kindParsed:
			sets = append(sets, ParsedSet{Weight: s.Weight, Reps: s.Reps, Sets: s.Sets, Note: s.Note, Text: s.Raw})
		case kindRaw:
			sets = append(sets, RawSet{Text: s.Raw})
		default:
			return fmt.Errorf("workout: exercise %q set %d: unknown kind %q", in.Name, i, s.Kind)
		}
	}
	e.Name = in.Name
	e.Sets = sets
	return nil
}
