// Package summary reports what an election definition contains without
// extracting ballot data from it.
package summary

import (
	"fmt"

	"github.com/jackzampolin/ballotmaker/internal/edf"
	"github.com/jackzampolin/ballotmaker/internal/index"
	"github.com/jackzampolin/ballotmaker/internal/walker"
)

// Summary describes one election definition document.
type Summary struct {
	Elections    []Election     `json:"elections" yaml:"elections"`
	BallotStyles []BallotStyle  `json:"ballot_styles" yaml:"ballot_styles"`
	Elements     map[string]int `json:"elements" yaml:"elements"` // count per qualified type
	DuplicateIDs []string       `json:"duplicate_ids,omitempty" yaml:"duplicate_ids,omitempty"`
}

// Election is the header information of one election.
type Election struct {
	Name         string `json:"name" yaml:"name"`
	Type         string `json:"type" yaml:"type"`
	StartDate    string `json:"start_date" yaml:"start_date"`
	EndDate      string `json:"end_date" yaml:"end_date"`
	BallotStyles int    `json:"ballot_styles" yaml:"ballot_styles"`
}

// BallotStyle is one ballot style in document order. Position is what
// `extract --ballot-style` selects by.
type BallotStyle struct {
	Position int      `json:"position" yaml:"position"`
	IDs      []string `json:"ids" yaml:"ids"` // external identifiers
	Scopes   []string `json:"scopes" yaml:"scopes"`
	Contests int      `json:"contests" yaml:"contests"`
}

// Build summarizes report using its index.
func Build(report *edf.ElectionReport, ix *index.Index) (*Summary, error) {
	s := &Summary{
		Elections:    make([]Election, 0, len(report.Elections)),
		BallotStyles: []BallotStyle{},
		Elements:     make(map[string]int),
		DuplicateIDs: ix.DuplicateIDs(),
	}

	for _, e := range report.Elections {
		s.Elections = append(s.Elections, Election{
			Name:         e.Name.Content(),
			Type:         e.ElectionType,
			StartDate:    e.StartDate.Format(edf.DateLayout),
			EndDate:      e.EndDate.Format(edf.DateLayout),
			BallotStyles: len(e.BallotStyles),
		})
	}

	for i, el := range ix.ByType("BallotStyle") {
		bs, ok := el.(*edf.BallotStyle)
		if !ok {
			continue
		}
		entry := BallotStyle{Position: i + 1, IDs: []string{}, Scopes: []string{}}
		for _, ext := range bs.ExternalIdentifiers {
			entry.IDs = append(entry.IDs, ext.Value)
		}
		for _, gpID := range bs.GpUnitIDs {
			unit, err := index.Resolve[*edf.GpUnit](ix, gpID)
			if err != nil {
				return nil, fmt.Errorf("ballot style %d: scope: %w", i+1, err)
			}
			entry.Scopes = append(entry.Scopes, unit.Name.Content())
		}
		for _, err := range walker.Contests(bs.OrderedContent) {
			if err != nil {
				return nil, fmt.Errorf("ballot style %d: %w", i+1, err)
			}
			entry.Contests++
		}
		s.BallotStyles = append(s.BallotStyles, entry)
	}

	for _, t := range ix.Types() {
		s.Elements[t] = len(ix.ByType(t))
	}
	return s, nil
}
