package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jackzampolin/ballotmaker/internal/testutil"
)

func TestAll(t *testing.T) {
	schemas, err := All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 schemas, got %d", len(schemas))
	}
	for _, s := range schemas {
		if !json.Valid(s.Source) {
			t.Errorf("%s schema is not valid JSON", s.Name)
		}
	}
}

func TestGet(t *testing.T) {
	t.Run("existing schema", func(t *testing.T) {
		s, err := Get("EDF")
		if err != nil {
			t.Fatalf("Get(EDF) error = %v", err)
		}
		if s.Name != EDF {
			t.Errorf("expected name edf, got %s", s.Name)
		}
		if !strings.Contains(string(s.Source), "ElectionReport") {
			t.Error("edf schema doesn't mention ElectionReport")
		}
	})

	t.Run("non-existent schema", func(t *testing.T) {
		if _, err := Get("NonExistent"); err == nil {
			t.Error("expected error for non-existent schema")
		}
	})
}

func TestCompile(t *testing.T) {
	for _, name := range []string{EDF, Ballot} {
		v, err := Compile(name)
		if err != nil {
			t.Fatalf("Compile(%s) error = %v", name, err)
		}
		if v.Name() != name {
			t.Errorf("expected %s, got %s", name, v.Name())
		}
	}
}

func TestValidate_EDF(t *testing.T) {
	v, err := Compile(EDF)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}

	t.Run("valid document", func(t *testing.T) {
		issues, err := v.Validate(testutil.JSON(t, testutil.Spacetown()))
		if err != nil {
			t.Fatalf("Validate error = %v", err)
		}
		if len(issues) != 0 {
			t.Errorf("expected no issues, got %v", issues)
		}
	})

	t.Run("missing votes allowed", func(t *testing.T) {
		doc := testutil.Spacetown()
		election := doc["Election"].([]any)[0].(map[string]any)
		contest := election["Contest"].([]any)[0].(map[string]any)
		delete(contest, "VotesAllowed")

		issues, err := v.Validate(testutil.JSON(t, doc))
		if err != nil {
			t.Fatalf("Validate error = %v", err)
		}
		if len(issues) == 0 {
			t.Fatal("expected issues")
		}
		found := false
		for _, i := range issues {
			if strings.Contains(i.Message, "VotesAllowed") && strings.HasPrefix(i.Location, "/Election/0/Contest/0") {
				found = true
			}
		}
		if !found {
			t.Errorf("expected an issue for VotesAllowed, got %v", issues)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		doc := testutil.Spacetown()
		election := doc["Election"].([]any)[0].(map[string]any)
		election["EndDate"] = "Nov 5"

		issues, err := v.Validate(testutil.JSON(t, doc))
		if err != nil {
			t.Fatalf("Validate error = %v", err)
		}
		if len(issues) == 0 || issues[0].Location != "/Election/0/EndDate" {
			t.Errorf("expected issue at /Election/0/EndDate, got %v", issues)
		}
	})
}

func TestValidate_Ballot(t *testing.T) {
	v, err := Compile(Ballot)
	if err != nil {
		t.Fatalf("Compile error = %v", err)
	}

	doc := []any{map[string]any{
		"name":       "General",
		"type":       "general",
		"start_date": "2024-11-05",
		"end_date":   "2024-11-05",
		"ballot_styles": []any{map[string]any{
			"id":     "bs-1",
			"scopes": []any{"Town"},
			"contests": []any{map[string]any{
				"id":       "m-1",
				"type":     "ballot measure",
				"title":    "Bond",
				"district": "Town",
				"text":     "Fund it?",
				"choices":  []any{map[string]any{"id": "y", "choice": "Yes"}},
			}},
		}},
	}}

	issues, err := v.Validate(doc)
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}

	contest := doc[0].(map[string]any)["ballot_styles"].([]any)[0].(map[string]any)["contests"].([]any)[0].(map[string]any)
	contest["type"] = "retention"
	issues, err = v.Validate(doc)
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if len(issues) == 0 {
		t.Error("expected issues for unknown contest type")
	}
}

func TestCompileDef(t *testing.T) {
	v, err := CompileDef(Ballot, BallotStyleDef)
	if err != nil {
		t.Fatalf("CompileDef error = %v", err)
	}
	if v.Name() != "ballot#BallotStyleData" {
		t.Errorf("expected ballot#BallotStyleData, got %s", v.Name())
	}

	style := map[string]any{
		"id":     "bs-1",
		"scopes": []any{"Town"},
		"contests": []any{map[string]any{
			"id":       "m-1",
			"type":     "ballot measure",
			"title":    "Bond",
			"district": "Town",
			"text":     "Fund it?",
			"choices":  []any{map[string]any{"id": "y", "choice": "Yes"}},
		}},
	}
	issues, err := v.Validate(style)
	if err != nil {
		t.Fatalf("Validate error = %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}

	t.Run("style missing contests", func(t *testing.T) {
		delete(style, "contests")
		issues, err := v.Validate(style)
		if err != nil {
			t.Fatalf("Validate error = %v", err)
		}
		if len(issues) == 0 {
			t.Error("expected issues for missing contests")
		}
	})

	t.Run("election is not a style", func(t *testing.T) {
		issues, err := v.Validate([]any{})
		if err != nil {
			t.Fatalf("Validate error = %v", err)
		}
		if len(issues) == 0 {
			t.Error("expected issues for an array")
		}
	})

	t.Run("unknown definition", func(t *testing.T) {
		if _, err := CompileDef(Ballot, "NoSuchDef"); err == nil {
			t.Error("expected error for unknown definition")
		}
	})

	t.Run("empty definition", func(t *testing.T) {
		if _, err := CompileDef(Ballot, ""); err == nil {
			t.Error("expected error for empty definition")
		}
	})
}

func TestIssue_String(t *testing.T) {
	i := Issue{Location: "", Message: "expected array"}
	if i.String() != "/: expected array" {
		t.Errorf("expected /: expected array, got %s", i.String())
	}
}
