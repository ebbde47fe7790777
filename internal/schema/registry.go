package schema

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schema is an embedded JSON Schema document.
type Schema struct {
	Name        string // Registry name (e.g., "edf")
	Description string
	Source      []byte // JSON Schema document
}

// registry lists the embedded schemas.
var registry = []Schema{
	{Name: "edf", Description: "election definition input (NIST SP 1500-100 subset)"},
	{Name: "ballot", Description: "extracted ballot data handed to rendering"},
}

// Names of the embedded schemas.
const (
	EDF    = "edf"
	Ballot = "ballot"
)

// BallotStyleDef names the single ballot style definition in the ballot schema.
const BallotStyleDef = "BallotStyleData"

// All returns every embedded schema in registry order.
func All() ([]Schema, error) {
	schemas := make([]Schema, len(registry))
	copy(schemas, registry)

	for i := range schemas {
		content, err := schemaFS.ReadFile(filename(schemas[i].Name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", schemas[i].Name, err)
		}
		schemas[i].Source = content
	}
	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, s := range registry {
		if s.Name == strings.ToLower(name) {
			content, err := schemaFS.ReadFile(filename(s.Name))
			if err != nil {
				return nil, fmt.Errorf("failed to read schema %s: %w", s.Name, err)
			}
			s.Source = content
			return &s, nil
		}
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

func filename(name string) string {
	return fmt.Sprintf("schemas/%s.schema.json", name)
}
