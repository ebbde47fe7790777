package summary

import (
	"reflect"
	"testing"

	"github.com/jackzampolin/ballotmaker/internal/edf"
	"github.com/jackzampolin/ballotmaker/internal/index"
	"github.com/jackzampolin/ballotmaker/internal/testutil"
)

func TestBuild(t *testing.T) {
	report, err := edf.Decode(testutil.JSON(t, testutil.Spacetown()))
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	s, err := Build(report, index.Build(report, edf.Namespace))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []Election{{
		Name:         "General Election",
		Type:         "general",
		StartDate:    "2024-11-05",
		EndDate:      "2024-11-05",
		BallotStyles: 1,
	}}
	if !reflect.DeepEqual(s.Elections, want) {
		t.Errorf("expected %+v, got %+v", want, s.Elections)
	}

	if len(s.BallotStyles) != 1 {
		t.Fatalf("expected 1 ballot style, got %d", len(s.BallotStyles))
	}
	bs := s.BallotStyles[0]
	if bs.Position != 1 || bs.Contests != 3 {
		t.Errorf("expected position 1 with 3 contests, got %+v", bs)
	}
	if !reflect.DeepEqual(bs.IDs, []string{"precinct_1_spacetown"}) {
		t.Errorf("expected [precinct_1_spacetown], got %v", bs.IDs)
	}
	if !reflect.DeepEqual(bs.Scopes, []string{"Spacetown", "Spacetown Precinct 1"}) {
		t.Errorf("expected scope names, got %v", bs.Scopes)
	}

	if got := s.Elements["ElectionResults.Candidate"]; got != 6 {
		t.Errorf("expected 6 candidates, got %d", got)
	}
	if got := s.Elements["ElectionResults.Party"]; got != 3 {
		t.Errorf("expected 3 parties, got %d", got)
	}
	if len(s.DuplicateIDs) != 0 {
		t.Errorf("expected no duplicate ids, got %v", s.DuplicateIDs)
	}
}

func TestBuild_UnknownScope(t *testing.T) {
	doc := testutil.Spacetown()
	election := doc["Election"].([]any)[0].(map[string]any)
	bs := election["BallotStyle"].([]any)[0].(map[string]any)
	bs["GpUnitIds"] = []any{"gp-nowhere"}

	report, err := edf.Decode(testutil.JSON(t, doc))
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	if _, err := Build(report, index.Build(report, edf.Namespace)); err == nil {
		t.Error("expected error for unknown scope")
	}
}
