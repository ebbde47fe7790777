package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ballotmaker/internal/export"
	"github.com/jackzampolin/ballotmaker/internal/extract"
	"github.com/jackzampolin/ballotmaker/internal/svcctx"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export ballot data to a spreadsheet",
	Long: `Extract ballot data and write it to an .xlsx workbook with one sheet
per ballot style, for proofing ballot content.

The workbook is written to --out, or to output.dir from config, or to the
exports directory under the ballotmaker home.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := svcctx.LoggerFrom(ctx)

		doc, err := loadDocument(ctx, args[0])
		if err != nil {
			return err
		}
		elections, err := extract.New(doc.index, extract.WithLogger(logger)).Extract(doc.report)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if err := checkBallotData(ctx, args[0], elections); err != nil {
			return err
		}

		path, err := exportPath(ctx, args[0])
		if err != nil {
			return err
		}
		if err := export.ToXLSX(elections, path); err != nil {
			return err
		}
		logger.Info("exported workbook", "file", path)
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "workbook path (default: output.dir or <home>/exports)")
}

// exportPath picks the workbook path for source and makes sure its
// directory exists.
func exportPath(ctx context.Context, source string) (string, error) {
	if exportOut != "" {
		return exportOut, mkdirFor(exportOut)
	}
	if dir := svcctx.ConfigFrom(ctx).OutputDir(); dir != "" {
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		path := filepath.Join(dir, base+".xlsx")
		return path, mkdirFor(path)
	}
	h := svcctx.HomeFrom(ctx)
	if err := h.EnsureExists(); err != nil {
		return "", err
	}
	return h.ExportPath(source, "xlsx"), nil
}

func mkdirFor(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
