package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ballotmaker/internal/summary"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Summarize an election definition",
	Long: `Summarize the elections, ballot styles and element counts of an
election definition without extracting full ballot data.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		s, err := summary.Build(doc.report, doc.index)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return write(cmd, s)
	},
}
