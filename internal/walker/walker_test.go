package walker

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jackzampolin/ballotmaker/internal/edf"
)

func contest(id string) *edf.OrderedContest {
	return &edf.OrderedContest{ContestID: id}
}

func header(id string, content ...edf.Element) *edf.OrderedHeader {
	return &edf.OrderedHeader{HeaderID: id, OrderedContent: content}
}

func collectIDs(t *testing.T, content []edf.Element) []string {
	t.Helper()
	ids := []string{}
	for id, err := range ContestIDs(content) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestContestIDs(t *testing.T) {
	tests := []struct {
		name    string
		content []edf.Element
		want    []string
	}{
		{"empty", nil, []string{}},
		{"flat", []edf.Element{contest("a"), contest("b")}, []string{"a", "b"}},
		{"empty header", []edf.Element{header("h"), contest("a")}, []string{"a"}},
		{
			"nested headers",
			[]edf.Element{
				contest("a"),
				header("h1",
					contest("b"),
					header("h2", contest("c"), header("h3", contest("d"))),
					contest("e"),
				),
				contest("f"),
			},
			[]string{"a", "b", "c", "d", "e", "f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectIDs(t, tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestContests_UnexpectedContent(t *testing.T) {
	content := []edf.Element{
		contest("a"),
		header("h", &edf.Generic{Base: edf.Base{Type: "ElectionResults.Header"}}),
		contest("b"),
	}

	var ids []string
	var got error
	for oc, err := range Contests(content) {
		if err != nil {
			got = err
			continue
		}
		ids = append(ids, oc.ContestID)
	}
	if !errors.Is(got, ErrUnexpectedContent) {
		t.Errorf("expected ErrUnexpectedContent, got %v", got)
	}
	if !reflect.DeepEqual(ids, []string{"a"}) {
		t.Errorf("expected iteration to stop after the error, got %v", ids)
	}
}

func TestContestIDs_EarlyBreak(t *testing.T) {
	content := []edf.Element{header("h", contest("a"), contest("b")), contest("c")}

	var ids []string
	for id, err := range ContestIDs(content) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, id)
		if len(ids) == 2 {
			break
		}
	}
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", ids)
	}
}

func TestHeaders(t *testing.T) {
	content := []edf.Element{
		contest("a"),
		header("h1", contest("b"), header("h2", contest("c"))),
		header("h3"),
	}

	var ids []string
	for h, err := range Headers(content) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, h.HeaderID)
	}
	want := []string{"h1", "h2", "h3"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("expected %v, got %v", want, ids)
	}

	t.Run("unexpected content", func(t *testing.T) {
		bad := []edf.Element{&edf.Generic{Base: edf.Base{Type: "ElectionResults.Contest"}}}
		for _, err := range Headers(bad) {
			if !errors.Is(err, ErrUnexpectedContent) {
				t.Errorf("expected ErrUnexpectedContent, got %v", err)
			}
		}
	})
}
