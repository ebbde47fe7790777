package extract

import (
	"fmt"

	"github.com/jackzampolin/ballotmaker/internal/ballot"
	"github.com/jackzampolin/ballotmaker/internal/edf"
	"github.com/jackzampolin/ballotmaker/internal/index"
	"github.com/jackzampolin/ballotmaker/internal/walker"
)

// ExtractContests returns one mapping per supported contest on the ballot
// style, in ballot order. Contests of other kinds are logged and left out.
func (e *Extractor) ExtractContests(bs *edf.BallotStyle) ([]map[string]any, error) {
	var contests []map[string]any
	for id, err := range walker.ContestIDs(bs.OrderedContent) {
		if err != nil {
			return nil, err
		}
		c, err := index.Resolve[edf.Contest](e.index, id)
		if err != nil {
			return nil, fmt.Errorf("contest: %w", err)
		}

		var entry map[string]any
		switch c := c.(type) {
		case *edf.CandidateContest:
			entry, err = e.candidateContest(c)
		case *edf.BallotMeasureContest:
			entry, err = e.ballotMeasureContest(c)
		default:
			e.logger.Warn("skipping contest of unsupported type", "contest_id", id, "name", c.ContestName(), "type", c.ElementType())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("contest %q: %w", id, err)
		}
		contests = append(contests, entry)
	}
	return contests, nil
}

func (e *Extractor) candidateContest(c *edf.CandidateContest) (map[string]any, error) {
	district, err := e.districtName(c)
	if err != nil {
		return nil, err
	}
	// Offices and primary parties must resolve, but ballots don't print them.
	if _, err := e.officeNames(c); err != nil {
		return nil, err
	}
	if _, err := e.primaryPartyNames(c); err != nil {
		return nil, err
	}

	candidates := make([]any, 0, len(c.Selections))
	for _, item := range c.Selections {
		sel, ok := item.(*edf.CandidateSelection)
		if !ok {
			return nil, fmt.Errorf("%w: %s in candidate contest", ErrUnexpectedSelection, item.ElementType())
		}
		slate, err := e.slate(sel)
		if err != nil {
			return nil, fmt.Errorf("selection %q: %w", sel.ID, err)
		}
		candidates = append(candidates, slate)
	}

	return map[string]any{
		"id":            c.ID,
		"type":          string(ballot.ContestTypeCandidate),
		"title":         c.Name,
		"district":      district,
		"vote_type":     c.VoteVariation,
		"votes_allowed": c.VotesAllowed,
		"candidates":    candidates,
	}, nil
}

// slate groups the candidates of one selection. Names keep candidate order.
// If every candidate with a party shares the same party, that party is
// listed once; otherwise each candidate's party is listed, so fusion and
// cross-endorsed tickets stay visible.
func (e *Extractor) slate(sel *edf.CandidateSelection) (map[string]any, error) {
	names := make([]any, 0, len(sel.CandidateIDs))
	parties := make([]any, 0, len(sel.CandidateIDs))
	partyIDs := make(map[string]struct{})

	for _, id := range sel.CandidateIDs {
		cand, err := index.Resolve[*edf.Candidate](e.index, id)
		if err != nil {
			return nil, fmt.Errorf("candidate: %w", err)
		}
		if name := cand.BallotName.Content(); name != "" {
			names = append(names, name)
		}
		if cand.PartyID == "" {
			continue
		}
		party, err := index.Resolve[*edf.Party](e.index, cand.PartyID)
		if err != nil {
			return nil, fmt.Errorf("candidate %q: party: %w", id, err)
		}
		if party.Name.Content() == "" && party.Abbreviation.Content() == "" {
			continue
		}
		parties = append(parties, partyRecord(party))
		partyIDs[cand.PartyID] = struct{}{}
	}

	if len(partyIDs) == 1 {
		parties = parties[:1]
	}

	return map[string]any{
		"id":          sel.ID,
		"name":        names,
		"party":       parties,
		"is_write_in": sel.IsWriteIn,
	}, nil
}

func partyRecord(p *edf.Party) map[string]any {
	return map[string]any{
		"name":         p.Name.Content(),
		"abbreviation": p.Abbreviation.Content(),
	}
}

func (e *Extractor) ballotMeasureContest(c *edf.BallotMeasureContest) (map[string]any, error) {
	choices := make([]any, 0, len(c.Selections))
	for _, item := range c.Selections {
		sel, ok := item.(*edf.BallotMeasureSelection)
		if !ok {
			return nil, fmt.Errorf("%w: %s in ballot measure contest", ErrUnexpectedSelection, item.ElementType())
		}
		choices = append(choices, map[string]any{
			"id":     sel.ID,
			"choice": sel.Selection.Content(),
		})
	}

	district, err := e.districtName(c)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":       c.ID,
		"type":     string(ballot.ContestTypeBallotMeasure),
		"title":    c.Name,
		"district": district,
		"text":     c.FullText.Content(),
		"choices":  choices,
	}, nil
}

func (e *Extractor) districtName(c edf.Contest) (string, error) {
	unit, err := index.Resolve[*edf.GpUnit](e.index, c.DistrictID())
	if err != nil {
		return "", fmt.Errorf("district: %w", err)
	}
	return unit.Name.Content(), nil
}

func (e *Extractor) officeNames(c *edf.CandidateContest) ([]string, error) {
	names := make([]string, 0, len(c.OfficeIDs))
	for _, id := range c.OfficeIDs {
		office, err := index.Resolve[*edf.Office](e.index, id)
		if err != nil {
			return nil, fmt.Errorf("office: %w", err)
		}
		names = append(names, office.Name.Content())
	}
	return names, nil
}

func (e *Extractor) primaryPartyNames(c *edf.CandidateContest) ([]string, error) {
	names := make([]string, 0, len(c.PrimaryPartyIDs))
	for _, id := range c.PrimaryPartyIDs {
		party, err := index.Resolve[*edf.Party](e.index, id)
		if err != nil {
			return nil, fmt.Errorf("primary party: %w", err)
		}
		names = append(names, party.Name.Content())
	}
	return names, nil
}
