package ballot

import (
	"encoding/json"
	"fmt"
	"io"
)

// ParseElections reads a JSON array of election mappings, the format
// ballot data is handed to rendering in, and validates every record.
func ParseElections(r io.Reader) ([]ElectionData, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse ballot data: %w", err)
	}

	elections := make([]ElectionData, 0, len(raw))
	for i, item := range raw {
		at := fmt.Sprintf("[%d]", i)
		m, ok := asMap(item)
		if !ok {
			return nil, &FieldError{Record: "ElectionData", Field: at, Expected: "mapping", Err: fmt.Errorf("%w: got %s", ErrWrongType, describe(item))}
		}
		e, err := NewElectionData(m)
		if err != nil {
			return nil, nest(at, err)
		}
		elections = append(elections, e)
	}
	return elections, nil
}

// ElectionMaps converts elections back into their mapping form.
func ElectionMaps(elections []ElectionData) []any {
	out := make([]any, len(elections))
	for i, e := range elections {
		out[i] = e.ToMap()
	}
	return out
}
