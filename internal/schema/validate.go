// Package schema holds the embedded JSON Schemas for election definitions
// and extracted ballot data, and validates documents against them.
package schema

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue is one schema violation.
type Issue struct {
	Location string // JSON pointer into the document
	Keyword  string // JSON pointer into the schema
	Message  string
}

func (i Issue) String() string {
	loc := i.Location
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, i.Message)
}

// Validator checks documents against one compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile loads and compiles the named embedded schema.
func Compile(name string) (*Validator, error) {
	return compile(name, "")
}

// CompileDef compiles one definition under $defs of the named schema, for
// validating a fragment of a document on its own.
func CompileDef(name, def string) (*Validator, error) {
	if def == "" {
		return nil, fmt.Errorf("schema %s: empty definition name", name)
	}
	return compile(name, def)
}

func compile(name, def string) (*Validator, error) {
	s, err := Get(name)
	if err != nil {
		return nil, err
	}

	url := s.Name + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(s.Source)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", s.Name, err)
	}
	label := s.Name
	if def != "" {
		url += "#/$defs/" + def
		label += "#" + def
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", label, err)
	}
	return &Validator{name: label, schema: compiled}, nil
}

// Name returns the schema's registry name.
func (v *Validator) Name() string { return v.name }

// Validate checks doc, a value decoded from JSON (json.Number allowed).
// It returns the leaf violations in the order the validator reports them;
// an empty result means the document conforms.
func (v *Validator) Validate(doc any) ([]Issue, error) {
	err := v.schema.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("failed to validate against %s schema: %w", v.name, err)
	}
	return leaves(nil, ve), nil
}

func leaves(out []Issue, ve *jsonschema.ValidationError) []Issue {
	if len(ve.Causes) == 0 {
		return append(out, Issue{
			Location: ve.InstanceLocation,
			Keyword:  ve.KeywordLocation,
			Message:  ve.Message,
		})
	}
	for _, c := range ve.Causes {
		out = leaves(out, c)
	}
	return out
}
