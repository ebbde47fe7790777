package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jackzampolin/ballotmaker/internal/ballot"
)

func sampleStyle() ballot.BallotStyleData {
	return ballot.BallotStyleData{
		ID:     "precinct_1",
		Scopes: []string{"Spacetown"},
		Contests: []ballot.ContestData{
			ballot.BallotMeasureContestData{
				ID:       "m-1",
				Type:     ballot.ContestTypeBallotMeasure,
				Title:    "Bond",
				District: "Spacetown",
				Text:     "Fund it?",
				Choices:  []ballot.BallotChoiceData{{ID: "y", Choice: "Yes"}},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatYAML, false},
		{"yaml", FormatYAML, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q): expected error %v, got %v", tt.in, tt.wantErr, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestWrite(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, FormatJSON, sampleStyle()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, `"type": "ballot measure"`) {
			t.Errorf("expected contest type in output, got %s", out)
		}
		if !strings.Contains(out, `"choices": [`) {
			t.Errorf("expected choices list in output, got %s", out)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, FormatYAML, sampleStyle()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "id: precinct_1") {
			t.Errorf("expected id in output, got %s", out)
		}
		if !strings.Contains(out, "type: ballot measure") {
			t.Errorf("expected contest type in output, got %s", out)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := Write(&bytes.Buffer{}, Format("xml"), sampleStyle()); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestFormat_Ext(t *testing.T) {
	if FormatJSON.Ext() != "json" || FormatYAML.Ext() != "yaml" {
		t.Errorf("expected json and yaml, got %s and %s", FormatJSON.Ext(), FormatYAML.Ext())
	}
}
