package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ballotmaker/internal/schema"
)

// SchemaEntry describes one embedded schema in the schemas listing.
type SchemaEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Bytes       int    `json:"bytes" yaml:"bytes"`
}

var schemasCmd = &cobra.Command{
	Use:   "schemas [name]",
	Short: "List the embedded schemas, or print one",
	Long: `List the JSON Schemas that validate and extract check documents against.
With a name, print that schema's source.

Examples:
  ballotmaker schemas
  ballotmaker schemas ballot > ballot.schema.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			s, err := schema.Get(args[0])
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(s.Source)
			return err
		}

		schemas, err := schema.All()
		if err != nil {
			return err
		}
		entries := make([]SchemaEntry, len(schemas))
		for i, s := range schemas {
			entries[i] = SchemaEntry{Name: s.Name, Description: s.Description, Bytes: len(s.Source)}
		}
		return write(cmd, entries)
	},
}
