package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ballotmaker/internal/ballot"
	"github.com/jackzampolin/ballotmaker/internal/config"
	"github.com/jackzampolin/ballotmaker/internal/extract"
	"github.com/jackzampolin/ballotmaker/internal/output"
	"github.com/jackzampolin/ballotmaker/internal/schema"
	"github.com/jackzampolin/ballotmaker/internal/svcctx"
)

var (
	extractBallotStyle int
	extractOut         string
	extractWatch       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract ballot data from an election definition",
	Long: `Extract ballot data for every election and ballot style in an election
definition, or for a single ballot style with --ballot-style.

Examples:
  ballotmaker extract spacetown.json
  ballotmaker extract spacetown.json --ballot-style 1 -o json
  ballotmaker extract spacetown.json --out ballots.yaml --watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runExtract(cmd, args[0]); err != nil {
			return err
		}
		if !extractWatch {
			return nil
		}
		watchConfig(cmd.Context())
		return watchFile(cmd.Context(), args[0], func() {
			if err := runExtract(cmd, args[0]); err != nil {
				svcctx.LoggerFrom(cmd.Context()).Error("extract failed", "file", args[0], "error", err)
			}
		})
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractBallotStyle, "ballot-style", 0, "extract only the nth ballot style (1-based, document order)")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "write output to this file instead of stdout")
	extractCmd.Flags().BoolVar(&extractWatch, "watch", false, "re-extract whenever the file changes")
}

func runExtract(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	logger := svcctx.LoggerFrom(ctx)

	doc, err := loadDocument(ctx, path)
	if err != nil {
		return err
	}
	ex := extract.New(doc.index, extract.WithLogger(logger))

	var data any
	if extractBallotStyle > 0 {
		bs, err := ex.NthBallotStyle(extractBallotStyle)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		style := bs.ToMap()
		if err := checkBallotStyle(ctx, path, style); err != nil {
			return err
		}
		data = style
	} else {
		elections, err := ex.Extract(doc.report)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := checkBallotData(ctx, path, elections); err != nil {
			return err
		}
		data = ballot.ElectionMaps(elections)
	}

	if extractOut == "" {
		return write(cmd, data)
	}
	var buf bytes.Buffer
	if err := output.Write(&buf, svcctx.FormatFrom(ctx), data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.WriteFile(extractOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", extractOut, err)
	}
	logger.Info("wrote ballot data", "file", extractOut)
	return nil
}

// checkBallotData validates extracted elections against the ballot schema
// when validate.schema is set.
func checkBallotData(ctx context.Context, path string, elections []ballot.ElectionData) error {
	if !svcctx.ConfigFrom(ctx).Validation.Schema {
		return nil
	}
	issues, err := checkSchema(schema.Ballot, ballot.ElectionMaps(elections))
	if err != nil {
		return err
	}
	return reportIssues(svcctx.LoggerFrom(ctx), path, issues)
}

// checkBallotStyle validates a single extracted ballot style against its
// definition in the ballot schema when validate.schema is set.
func checkBallotStyle(ctx context.Context, path string, style map[string]any) error {
	if !svcctx.ConfigFrom(ctx).Validation.Schema {
		return nil
	}
	validator, err := schema.CompileDef(schema.Ballot, schema.BallotStyleDef)
	if err != nil {
		return err
	}
	issues, err := checkWith(validator, style)
	if err != nil {
		return err
	}
	return reportIssues(svcctx.LoggerFrom(ctx), path, issues)
}

// watchConfig reloads the config file while watching. Namespace and
// validation changes apply to the next run; the output format does not.
func watchConfig(ctx context.Context) {
	svc := svcctx.ServicesFrom(ctx)
	if svc == nil || svc.Config.ConfigFile() == "" {
		return
	}
	svc.Config.OnChange(func(cfg *config.Config) {
		svc.Logger.Info("config reloaded", "file", svc.Config.ConfigFile(), "namespace", cfg.Namespace, "validate_schema", cfg.Validation.Schema)
	})
	svc.Config.WatchConfig()
}

// watchFile calls fn each time path is written until ctx is done. The
// parent directory is watched so editors that replace the file are seen.
func watchFile(ctx context.Context, path string, fn func()) error {
	logger := svcctx.LoggerFrom(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Info("watching for changes", "file", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				logger.Debug("file changed", "file", path, "op", event.Op.String())
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
