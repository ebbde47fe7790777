package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ballotmaker/internal/ballot"
	"github.com/jackzampolin/ballotmaker/internal/edf"
	"github.com/jackzampolin/ballotmaker/internal/index"
	"github.com/jackzampolin/ballotmaker/internal/schema"
	"github.com/jackzampolin/ballotmaker/internal/svcctx"
)

// ErrInvalid is returned when validate finds problems.
var ErrInvalid = errors.New("validation failed")

var validateBallotData bool

// ValidateResult is the report printed by validate.
type ValidateResult struct {
	File         string   `json:"file" yaml:"file"`
	Schema       string   `json:"schema" yaml:"schema"`
	Valid        bool     `json:"valid" yaml:"valid"`
	Issues       []string `json:"issues,omitempty" yaml:"issues,omitempty"`
	DecodeError  string   `json:"decode_error,omitempty" yaml:"decode_error,omitempty"`
	Elections    int      `json:"elections" yaml:"elections"`
	BallotStyles int      `json:"ballot_styles" yaml:"ballot_styles"`
	DuplicateIDs []string `json:"duplicate_ids,omitempty" yaml:"duplicate_ids,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a document against its schema",
	Long: `Check an election definition against the embedded NIST schema and
report whether it decodes, how many elections and ballot styles it holds,
and any duplicate ids.

With --ballot-data, the file is instead read as extracted ballot data
(a JSON array of elections) and checked against the ballot data schema.

Exits non-zero if the document is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			result *ValidateResult
			err    error
		)
		if validateBallotData {
			result, err = validateBallot(args[0])
		} else {
			result, err = validateDefinition(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}
		if err := write(cmd, result); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("%s: %w", args[0], ErrInvalid)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateBallotData, "ballot-data", false, "validate extracted ballot data instead of an election definition")
}

func validateDefinition(ctx context.Context, path string) (*ValidateResult, error) {
	raw, err := edf.ReadFile(path)
	if err != nil {
		return nil, err
	}
	result := &ValidateResult{File: path, Schema: schema.EDF}

	issues, err := checkSchema(schema.EDF, raw)
	if err != nil {
		return nil, err
	}
	for _, i := range issues {
		result.Issues = append(result.Issues, i.String())
	}

	report, err := edf.Decode(raw)
	if err != nil {
		result.DecodeError = err.Error()
		return result, nil
	}
	ix := index.Build(report, svcctx.ConfigFrom(ctx).Namespace)
	result.Elections = len(report.Elections)
	result.BallotStyles = len(ix.ByType("BallotStyle"))
	result.DuplicateIDs = ix.DuplicateIDs()
	result.Valid = len(issues) == 0 && len(result.DuplicateIDs) == 0
	return result, nil
}

func validateBallot(path string) (*ValidateResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ballot data: %w", err)
	}
	defer f.Close()

	result := &ValidateResult{File: path, Schema: schema.Ballot}
	elections, err := ballot.ParseElections(f)
	if err != nil {
		result.DecodeError = err.Error()
		return result, nil
	}

	issues, err := checkSchema(schema.Ballot, ballot.ElectionMaps(elections))
	if err != nil {
		return nil, err
	}
	for _, i := range issues {
		result.Issues = append(result.Issues, i.String())
	}
	result.Elections = len(elections)
	for _, e := range elections {
		result.BallotStyles += len(e.BallotStyles)
	}
	result.Valid = len(issues) == 0
	return result, nil
}
