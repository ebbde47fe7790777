// Package extract turns an indexed election definition into ballot data.
//
// For every election and ballot style, contests are taken in ballot order,
// their references are resolved through the index, and each is reduced to
// the mapping the ballot package validates. Candidate selections become
// slates: one entry per selectable option, however many candidates it names.
package extract

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jackzampolin/ballotmaker/internal/ballot"
	"github.com/jackzampolin/ballotmaker/internal/edf"
	"github.com/jackzampolin/ballotmaker/internal/index"
)

// Sentinel errors for the extract package.
var (
	// ErrMultipleExternalIDs is returned for a ballot style with more than one external identifier.
	ErrMultipleExternalIDs = errors.New("multiple ballot style external identifiers are not supported")

	// ErrUnexpectedSelection is returned when a contest holds a selection of the wrong kind.
	ErrUnexpectedSelection = errors.New("unexpected contest selection")

	// ErrBallotStyleRange is returned when a ballot style position is out of range.
	ErrBallotStyleRange = errors.New("ballot style out of range")
)

// Extractor reads ballot data out of an indexed document. It only reads the
// index, so one Extractor may serve concurrent calls.
type Extractor struct {
	index  *index.Index
	logger *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for skipped-contest notices.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// New creates an Extractor over a fully built index.
func New(ix *index.Index, opts ...Option) *Extractor {
	e := &Extractor{index: ix}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// FromDocument decodes a parsed document, indexes it and extracts every election.
func FromDocument(doc map[string]any, namespace string, opts ...Option) ([]ballot.ElectionData, error) {
	report, err := edf.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode election definition: %w", err)
	}
	return New(index.Build(report, namespace), opts...).Extract(report)
}

// Extract returns validated ballot data for every election in the report.
func (e *Extractor) Extract(report *edf.ElectionReport) ([]ballot.ElectionData, error) {
	run := *e
	run.logger = e.logger.With("run_id", uuid.New().String())
	run.logger.Debug("extracting ballot data", "elections", len(report.Elections), "elements", e.index.Len())

	raws, err := run.Elections(report)
	if err != nil {
		return nil, err
	}
	elections := make([]ballot.ElectionData, 0, len(raws))
	for i, raw := range raws {
		data, err := ballot.NewElectionData(raw)
		if err != nil {
			return nil, fmt.Errorf("election %d: %w", i+1, err)
		}
		elections = append(elections, data)
	}

	run.logger.Info("extracted ballot data", "elections", len(elections))
	return elections, nil
}

// Elections returns the unvalidated mapping for every election in the report.
func (e *Extractor) Elections(report *edf.ElectionReport) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(report.Elections))
	for i, el := range report.Elections {
		raw, err := e.Election(el)
		if err != nil {
			return nil, fmt.Errorf("election %d: %w", i+1, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Election reduces one election to its ballot data mapping.
func (e *Extractor) Election(el *edf.Election) (map[string]any, error) {
	styles := make([]any, 0, len(el.BallotStyles))
	for _, bs := range el.BallotStyles {
		raw, err := e.BallotStyle(bs)
		if err != nil {
			return nil, err
		}
		styles = append(styles, raw)
	}
	return map[string]any{
		"name":          el.Name.Content(),
		"type":          el.ElectionType,
		"start_date":    el.StartDate.Format(edf.DateLayout),
		"end_date":      el.EndDate.Format(edf.DateLayout),
		"ballot_styles": styles,
	}, nil
}

// BallotStyle reduces one ballot style to its id, scopes and contests.
func (e *Extractor) BallotStyle(bs *edf.BallotStyle) (map[string]any, error) {
	id, err := ballotStyleID(bs)
	if err != nil {
		return nil, err
	}

	scopes := make([]any, 0, len(bs.GpUnitIDs))
	for _, gpID := range bs.GpUnitIDs {
		unit, err := index.Resolve[*edf.GpUnit](e.index, gpID)
		if err != nil {
			return nil, fmt.Errorf("ballot style %q: scope: %w", id, err)
		}
		scopes = append(scopes, unit.Name.Content())
	}

	contests, err := e.ExtractContests(bs)
	if err != nil {
		return nil, fmt.Errorf("ballot style %q: %w", id, err)
	}
	entries := make([]any, len(contests))
	for i, c := range contests {
		entries[i] = c
	}

	return map[string]any{
		"id":       id,
		"scopes":   scopes,
		"contests": entries,
	}, nil
}

// NthBallotStyle extracts the nth ballot style (1-based) in document order
// across all elections.
func (e *Extractor) NthBallotStyle(n int) (ballot.BallotStyleData, error) {
	styles := e.index.ByType("BallotStyle")
	if n < 1 || n > len(styles) {
		return ballot.BallotStyleData{}, fmt.Errorf("%w: %d is not in [1-%d]", ErrBallotStyleRange, n, len(styles))
	}
	bs, ok := styles[n-1].(*edf.BallotStyle)
	if !ok {
		return ballot.BallotStyleData{}, fmt.Errorf("%w: %s", index.ErrKindMismatch, styles[n-1].ElementType())
	}
	raw, err := e.BallotStyle(bs)
	if err != nil {
		return ballot.BallotStyleData{}, err
	}
	return ballot.NewBallotStyleData(raw)
}

// ballotStyleID returns the ballot style's external identifier, or "" if it has none.
func ballotStyleID(bs *edf.BallotStyle) (string, error) {
	switch len(bs.ExternalIdentifiers) {
	case 0:
		return "", nil
	case 1:
		return bs.ExternalIdentifiers[0].Value, nil
	}
	return "", fmt.Errorf("%w: found %d", ErrMultipleExternalIDs, len(bs.ExternalIdentifiers))
}
