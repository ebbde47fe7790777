package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackzampolin/ballotmaker/internal/edf"
	"github.com/jackzampolin/ballotmaker/internal/index"
	"github.com/jackzampolin/ballotmaker/internal/schema"
	"github.com/jackzampolin/ballotmaker/internal/svcctx"
)

// ErrSchema is returned when a document does not conform to its schema.
var ErrSchema = errors.New("document does not match schema")

// document is a decoded and indexed election definition.
type document struct {
	report *edf.ElectionReport
	index  *index.Index
}

// loadDocument reads path, checks it against the embedded schema when
// validate.schema is set, then decodes and indexes it.
func loadDocument(ctx context.Context, path string) (*document, error) {
	logger := svcctx.LoggerFrom(ctx)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("election definition not found: %w", err)
	}
	raw, err := edf.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := svcctx.ConfigFrom(ctx)
	if cfg.Validation.Schema {
		issues, err := checkSchema(schema.EDF, raw)
		if err != nil {
			return nil, err
		}
		if err := reportIssues(logger, path, issues); err != nil {
			return nil, err
		}
	}

	report, err := edf.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ix := index.Build(report, cfg.Namespace)
	if dups := ix.DuplicateIDs(); len(dups) > 0 {
		logger.Warn("document has duplicate ids", "file", path, "ids", dups)
	}
	logger.Debug("loaded election definition", "file", path, "elements", ix.Len())

	return &document{report: report, index: ix}, nil
}

// checkSchema validates v against the named schema. v is normalized
// through JSON first so Go values validate the way decoded ones do.
func checkSchema(name string, v any) ([]schema.Issue, error) {
	validator, err := schema.Compile(name)
	if err != nil {
		return nil, err
	}
	return checkWith(validator, v)
}

func checkWith(validator *schema.Validator, v any) ([]schema.Issue, error) {
	doc, err := toJSONValue(v)
	if err != nil {
		return nil, err
	}
	return validator.Validate(doc)
}

func reportIssues(logger *slog.Logger, path string, issues []schema.Issue) error {
	if len(issues) == 0 {
		return nil
	}
	for _, i := range issues {
		logger.Error("schema violation", "file", path, "at", i.Location, "error", i.Message)
	}
	return fmt.Errorf("%s: %w: %d issue(s), first: %s", path, ErrSchema, len(issues), issues[0])
}

func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return out, nil
}
