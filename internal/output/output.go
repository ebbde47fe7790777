// Package output writes command results as YAML or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format defines the output format for CLI commands.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Default is the default output format.
const Default = FormatYAML

// ParseFormat maps a flag or config value to a Format.
// An empty string selects the default.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return Default, nil
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown output format: %s", s)
}

// Ext returns the file extension for the format.
func (f Format) Ext() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// Write encodes data to w in the given format.
func Write(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
