// Package export writes extracted ballot data to a proofing workbook:
// one sheet per ballot style, one row per contest choice, in ballot order.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jackzampolin/ballotmaker/internal/ballot"
)

// maxSheetName is the longest sheet name a workbook accepts.
const maxSheetName = 31

var headers = []string{
	"position", "contest_id", "contest_type", "title", "district", "vote_type", "votes_allowed",
	"choice_id", "choice", "party", "is_write_in",
}

// Row is one contest choice as proofed on the workbook.
type Row struct {
	Position     int // 1-based contest position on the ballot
	ContestID    string
	ContestType  ballot.ContestType
	Title        string
	District     string
	VoteType     string
	VotesAllowed any // "" for ballot measures
	ChoiceID     string
	Choice       string
	Party        string
	IsWriteIn    bool
}

// Rows flattens a ballot style into workbook rows. A contest with no
// choices still gets one row so it is visible when proofing.
func Rows(bs ballot.BallotStyleData) []Row {
	var rows []Row
	for i, c := range bs.Contests {
		switch c := c.(type) {
		case ballot.CandidateContestData:
			base := Row{
				Position:     i + 1,
				ContestID:    c.ID,
				ContestType:  ballot.ContestTypeCandidate,
				Title:        c.Title,
				District:     c.District,
				VoteType:     c.VoteType,
				VotesAllowed: c.VotesAllowed,
			}
			if len(c.Candidates) == 0 {
				rows = append(rows, base)
			}
			for _, cand := range c.Candidates {
				r := base
				r.ChoiceID = cand.ID
				r.Choice = strings.Join(cand.Name, " / ")
				if cand.IsWriteIn && r.Choice == "" {
					r.Choice = "(write-in)"
				}
				r.Party = partyLabel(cand.Party)
				r.IsWriteIn = cand.IsWriteIn
				rows = append(rows, r)
			}
		case ballot.BallotMeasureContestData:
			base := Row{
				Position:     i + 1,
				ContestID:    c.ID,
				ContestType:  ballot.ContestTypeBallotMeasure,
				Title:        c.Title,
				District:     c.District,
				VotesAllowed: "",
			}
			if len(c.Choices) == 0 {
				rows = append(rows, base)
			}
			for _, ch := range c.Choices {
				r := base
				r.ChoiceID = ch.ID
				r.Choice = ch.Choice
				rows = append(rows, r)
			}
		}
	}
	return rows
}

func partyLabel(parties []ballot.PartyData) string {
	labels := make([]string, len(parties))
	for i, p := range parties {
		labels[i] = p.Name
		if p.Abbreviation != "" {
			labels[i] = p.Abbreviation
		}
	}
	return strings.Join(labels, " / ")
}

// Workbook builds a workbook with one sheet per ballot style across all elections.
func Workbook(elections []ballot.ElectionData) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)
	used := make(map[string]bool)
	n := 0

	for _, e := range elections {
		for _, bs := range e.BallotStyles {
			n++
			name := SheetName(bs.ID, n, used)
			if n == 1 {
				if err := f.SetSheetName(first, name); err != nil {
					return nil, fmt.Errorf("failed to name sheet %q: %w", name, err)
				}
			} else if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
			}
			if err := writeSheet(f, name, Rows(bs)); err != nil {
				return nil, err
			}
		}
	}

	if n == 0 {
		if err := writeSheet(f, first, nil); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows []Row) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		r := i + 2
		values := []any{
			row.Position, row.ContestID, string(row.ContestType), row.Title, row.District, row.VoteType,
			row.VotesAllowed, row.ChoiceID, row.Choice, row.Party, row.IsWriteIn,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}
	return nil
}

// SheetName derives a valid, unique sheet name from a ballot style id.
// n is the style's 1-based position and names styles without an id.
func SheetName(id string, n int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.Trim(id, "'"))
	if name == "" {
		name = "ballot style " + strconv.Itoa(n)
	}
	name = truncate(name, maxSheetName)

	base := name
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := "~" + strconv.Itoa(i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ToXLSX writes the workbook for elections to outputPath, creating its directory.
func ToXLSX(elections []ballot.ElectionData, outputPath string) error {
	f, err := Workbook(elections)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
