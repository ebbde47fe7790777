package edf

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Parse reads a JSON document. Numbers are kept as json.Number so integer
// fields can be checked exactly.
func Parse(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse election definition JSON: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("election definition is empty")
	}
	return doc, nil
}

// ReadFile parses the JSON document at path.
func ReadFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open election definition: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
