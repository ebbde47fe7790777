package ballot

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func candidateContestMap() map[string]any {
	return map[string]any{
		"id":            "contest-mayor",
		"type":          "candidate",
		"title":         "Mayor of Orbit City",
		"district":      "Orbit City",
		"vote_type":     "plurality",
		"votes_allowed": 1,
		"candidates": []any{
			map[string]any{
				"id":          "sel-spacely",
				"name":        []any{"Cosmo Spacely"},
				"party":       []any{map[string]any{"name": "The Lepton Party", "abbreviation": "LEP"}},
				"is_write_in": false,
			},
			map[string]any{
				"id":          "sel-writein",
				"name":        []any{},
				"party":       []any{},
				"is_write_in": true,
			},
		},
	}
}

func measureContestMap() map[string]any {
	return map[string]any{
		"id":       "contest-measure",
		"type":     "ballot measure",
		"title":    "Air Traffic Control Tax Increase",
		"district": "Spacetown",
		"text":     "Shall Spacetown increase its sales tax?",
		"choices": []any{
			map[string]any{"id": "sel-yes", "choice": "Yes"},
			map[string]any{"id": "sel-no", "choice": "No"},
		},
	}
}

func TestNewCandidateContestData(t *testing.T) {
	t.Run("valid mapping", func(t *testing.T) {
		c, err := NewCandidateContestData(candidateContestMap())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Type != ContestTypeCandidate {
			t.Errorf("expected type candidate, got %s", c.Type)
		}
		if len(c.Candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(c.Candidates))
		}
		if !c.Candidates[1].IsWriteIn {
			t.Error("expected second candidate to be a write-in")
		}
	})

	t.Run("round trip reproduces the mapping", func(t *testing.T) {
		raw := candidateContestMap()
		c, err := NewCandidateContestData(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(c.ToMap(), raw) {
			t.Errorf("expected %v, got %v", raw, c.ToMap())
		}
		again, err := NewCandidateContestData(c.ToMap())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !again.Equal(c) {
			t.Error("expected rebuilt contest to be equal")
		}
	})

	t.Run("missing votes_allowed names the field", func(t *testing.T) {
		raw := candidateContestMap()
		delete(raw, "votes_allowed")

		_, err := NewCandidateContestData(raw)
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got %v", err)
		}
		if !strings.Contains(err.Error(), "votes_allowed") {
			t.Errorf("expected error to name votes_allowed, got %v", err)
		}
	})

	t.Run("first missing field wins", func(t *testing.T) {
		raw := candidateContestMap()
		delete(raw, "title")
		delete(raw, "candidates")

		_, err := NewCandidateContestData(raw)
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fe.Field != "title" {
			t.Errorf("expected field title, got %s", fe.Field)
		}
	})

	t.Run("wrong type", func(t *testing.T) {
		raw := candidateContestMap()
		raw["votes_allowed"] = "one"

		_, err := NewCandidateContestData(raw)
		if !errors.Is(err, ErrWrongType) {
			t.Fatalf("expected ErrWrongType, got %v", err)
		}
		if !strings.Contains(err.Error(), "expected int") {
			t.Errorf("expected error to name the expected type, got %v", err)
		}
	})

	t.Run("json numbers are accepted", func(t *testing.T) {
		raw := candidateContestMap()
		raw["votes_allowed"] = json.Number("3")

		c, err := NewCandidateContestData(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.VotesAllowed != 3 {
			t.Errorf("expected 3, got %d", c.VotesAllowed)
		}
	})

	t.Run("fractional votes_allowed rejected", func(t *testing.T) {
		raw := candidateContestMap()
		raw["votes_allowed"] = 1.5

		if _, err := NewCandidateContestData(raw); !errors.Is(err, ErrWrongType) {
			t.Errorf("expected ErrWrongType, got %v", err)
		}
	})

	t.Run("out of range votes_allowed rejected", func(t *testing.T) {
		for _, v := range []any{uint64(math.MaxUint64), uint(math.MaxUint), 1e300, -1e300, math.Inf(1), math.NaN(), json.Number("99999999999999999999")} {
			raw := candidateContestMap()
			raw["votes_allowed"] = v

			if _, err := NewCandidateContestData(raw); !errors.Is(err, ErrWrongType) {
				t.Errorf("%v: expected ErrWrongType, got %v", v, err)
			}
		}
	})

	t.Run("large in-range votes_allowed accepted", func(t *testing.T) {
		raw := candidateContestMap()
		raw["votes_allowed"] = uint64(1 << 30)

		c, err := NewCandidateContestData(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.VotesAllowed != 1<<30 {
			t.Errorf("expected %d, got %d", 1<<30, c.VotesAllowed)
		}
	})

	t.Run("unexpected field", func(t *testing.T) {
		raw := candidateContestMap()
		raw["offices"] = []any{"Mayor"}

		_, err := NewCandidateContestData(raw)
		if !errors.Is(err, ErrUnexpectedField) {
			t.Errorf("expected ErrUnexpectedField, got %v", err)
		}
	})

	t.Run("nested error carries its path", func(t *testing.T) {
		raw := candidateContestMap()
		cands := raw["candidates"].([]any)
		delete(cands[1].(map[string]any), "is_write_in")

		_, err := NewCandidateContestData(raw)
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fe.Field != "candidates[1].is_write_in" {
			t.Errorf("expected candidates[1].is_write_in, got %s", fe.Field)
		}
		if fe.Record != "CandidateChoiceData" {
			t.Errorf("expected record CandidateChoiceData, got %s", fe.Record)
		}
	})

	t.Run("measure type is rejected", func(t *testing.T) {
		raw := candidateContestMap()
		raw["type"] = "ballot measure"

		if _, err := NewCandidateContestData(raw); !errors.Is(err, ErrUnknownContestType) {
			t.Errorf("expected ErrUnknownContestType, got %v", err)
		}
	})
}

func TestNewBallotMeasureContestData(t *testing.T) {
	raw := measureContestMap()
	m, err := NewBallotMeasureContestData(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []BallotChoiceData{{ID: "sel-yes", Choice: "Yes"}, {ID: "sel-no", Choice: "No"}}
	if !reflect.DeepEqual(m.Choices, want) {
		t.Errorf("expected %v, got %v", want, m.Choices)
	}
	if !reflect.DeepEqual(m.ToMap(), raw) {
		t.Errorf("expected round trip to reproduce %v, got %v", raw, m.ToMap())
	}
}

func TestNewContestData(t *testing.T) {
	t.Run("dispatches on type", func(t *testing.T) {
		c, err := NewContestData(candidateContestMap())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := c.(CandidateContestData); !ok {
			t.Errorf("expected CandidateContestData, got %T", c)
		}

		c, err = NewContestData(measureContestMap())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.ContestType() != ContestTypeBallotMeasure {
			t.Errorf("expected ballot measure, got %s", c.ContestType())
		}
	})

	t.Run("missing discriminator", func(t *testing.T) {
		raw := candidateContestMap()
		delete(raw, "type")

		if _, err := NewContestData(raw); !errors.Is(err, ErrMissingDiscriminator) {
			t.Errorf("expected ErrMissingDiscriminator, got %v", err)
		}
	})

	t.Run("unknown discriminator", func(t *testing.T) {
		raw := candidateContestMap()
		raw["type"] = "retention"

		_, err := NewContestData(raw)
		if !errors.Is(err, ErrUnknownContestType) {
			t.Fatalf("expected ErrUnknownContestType, got %v", err)
		}
		if !strings.Contains(err.Error(), "retention") {
			t.Errorf("expected error to name the value, got %v", err)
		}
	})
}

func TestNewBallotStyleData(t *testing.T) {
	raw := map[string]any{
		"id":       "precinct_1",
		"scopes":   []any{"Spacetown", "Precinct 1"},
		"contests": []any{candidateContestMap(), measureContestMap()},
	}

	t.Run("keeps contest order and kinds", func(t *testing.T) {
		bs, err := NewBallotStyleData(raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(bs.Contests) != 2 {
			t.Fatalf("expected 2 contests, got %d", len(bs.Contests))
		}
		if bs.Contests[0].ContestType() != ContestTypeCandidate || bs.Contests[1].ContestType() != ContestTypeBallotMeasure {
			t.Errorf("expected candidate then ballot measure, got %s then %s", bs.Contests[0].ContestType(), bs.Contests[1].ContestType())
		}
	})

	t.Run("contest without votes_allowed", func(t *testing.T) {
		contest := candidateContestMap()
		delete(contest, "votes_allowed")
		bad := map[string]any{
			"id":       "precinct_1",
			"scopes":   []any{},
			"contests": []any{contest},
		}

		_, err := NewBallotStyleData(bad)
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fe.Field != "contests[0].votes_allowed" {
			t.Errorf("expected contests[0].votes_allowed, got %s", fe.Field)
		}
	})

	t.Run("non-mapping contest entry", func(t *testing.T) {
		bad := map[string]any{
			"id":       "precinct_1",
			"scopes":   []any{},
			"contests": []any{"contest-1"},
		}

		if _, err := NewBallotStyleData(bad); !errors.Is(err, ErrWrongType) {
			t.Errorf("expected ErrWrongType, got %v", err)
		}
	})

	t.Run("scopes must be strings", func(t *testing.T) {
		bad := map[string]any{
			"id":       "precinct_1",
			"scopes":   []any{1},
			"contests": []any{},
		}

		if _, err := NewBallotStyleData(bad); !errors.Is(err, ErrWrongType) {
			t.Errorf("expected ErrWrongType, got %v", err)
		}
	})
}

func TestNewPartyData(t *testing.T) {
	t.Run("nil mapping", func(t *testing.T) {
		if _, err := NewPartyData(nil); !errors.Is(err, ErrWrongType) {
			t.Errorf("expected ErrWrongType, got %v", err)
		}
	})

	t.Run("empty abbreviation is allowed", func(t *testing.T) {
		p, err := NewPartyData(map[string]any{"name": "Independent", "abbreviation": ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Abbreviation != "" {
			t.Errorf("expected empty abbreviation, got %s", p.Abbreviation)
		}
	})
}

func TestParseElections(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc := `[{"name":"General","type":"general","start_date":"2024-11-05","end_date":"2024-11-05",
			"ballot_styles":[{"id":"bs-1","scopes":["Town"],"contests":[
				{"id":"m-1","type":"ballot measure","title":"Bond","district":"Town","text":"Fund it?",
				 "choices":[{"id":"y","choice":"Yes"},{"id":"n","choice":"No"}]}]}]}]`

		elections, err := ParseElections(strings.NewReader(doc))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(elections) != 1 {
			t.Fatalf("expected 1 election, got %d", len(elections))
		}
		if got := elections[0].BallotStyles[0].Contests[0].ContestID(); got != "m-1" {
			t.Errorf("expected m-1, got %s", got)
		}
		maps := ElectionMaps(elections)
		if len(maps) != 1 {
			t.Errorf("expected 1 mapping, got %d", len(maps))
		}
	})

	t.Run("error is located", func(t *testing.T) {
		doc := `[{"name":"General","type":"general","start_date":"2024-11-05","end_date":"2024-11-05","ballot_styles":[]},
			{"name":"Runoff","type":"runoff","start_date":"2024-12-03","ballot_styles":[]}]`

		_, err := ParseElections(strings.NewReader(doc))
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("expected FieldError, got %v", err)
		}
		if fe.Field != "[1].end_date" {
			t.Errorf("expected [1].end_date, got %s", fe.Field)
		}
	})

	t.Run("not json", func(t *testing.T) {
		if _, err := ParseElections(strings.NewReader("{")); err == nil {
			t.Error("expected error for malformed JSON")
		}
	})
}
