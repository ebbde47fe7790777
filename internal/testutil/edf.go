package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Builders for election definition fixtures. They produce the same
// map[string]any shape a JSON decoder would, so tests can tweak fields
// before decoding.

const ns = "ElectionResults."

// Text builds an InternationalizedText with one English line per argument.
func Text(lines ...string) map[string]any {
	text := make([]any, len(lines))
	for i, l := range lines {
		text[i] = map[string]any{
			"@type":    ns + "LanguageString",
			"Content":  l,
			"Language": "en",
		}
	}
	return map[string]any{
		"@type": ns + "InternationalizedText",
		"Text":  text,
	}
}

func Party(id, name, abbreviation string) map[string]any {
	p := map[string]any{
		"@id":   id,
		"@type": ns + "Party",
		"Name":  Text(name),
	}
	if abbreviation != "" {
		p["Abbreviation"] = Text(abbreviation)
	}
	return p
}

func GpUnit(id, name string) map[string]any {
	return map[string]any{
		"@id":   id,
		"@type": ns + "ReportingUnit",
		"Name":  Text(name),
		"Type":  "precinct",
	}
}

func Office(id, name string) map[string]any {
	return map[string]any{
		"@id":   id,
		"@type": ns + "Office",
		"Name":  Text(name),
	}
}

// Candidate builds a candidate; partyID may be empty.
func Candidate(id, ballotName, partyID string) map[string]any {
	c := map[string]any{
		"@id":        id,
		"@type":      ns + "Candidate",
		"BallotName": Text(ballotName),
	}
	if partyID != "" {
		c["PartyId"] = partyID
	}
	return c
}

func CandidateSelection(id string, candidateIDs ...string) map[string]any {
	ids := make([]any, len(candidateIDs))
	for i, c := range candidateIDs {
		ids[i] = c
	}
	return map[string]any{
		"@id":          id,
		"@type":        ns + "CandidateSelection",
		"CandidateIds": ids,
	}
}

func WriteInSelection(id string) map[string]any {
	return map[string]any{
		"@id":       id,
		"@type":     ns + "CandidateSelection",
		"IsWriteIn": true,
	}
}

func CandidateContest(id, name, districtID string, votesAllowed int, selections ...map[string]any) map[string]any {
	return map[string]any{
		"@id":                id,
		"@type":              ns + "CandidateContest",
		"Name":               name,
		"ElectionDistrictId": districtID,
		"VotesAllowed":       votesAllowed,
		"VoteVariation":      "plurality",
		"ContestSelection":   anys(selections),
	}
}

func BallotMeasureSelection(id, selection string) map[string]any {
	return map[string]any{
		"@id":       id,
		"@type":     ns + "BallotMeasureSelection",
		"Selection": Text(selection),
	}
}

func BallotMeasureContest(id, name, districtID string, fullText []string, selections ...map[string]any) map[string]any {
	return map[string]any{
		"@id":                id,
		"@type":              ns + "BallotMeasureContest",
		"Name":               name,
		"ElectionDistrictId": districtID,
		"FullText":           Text(fullText...),
		"ContestSelection":   anys(selections),
	}
}

func OrderedContest(contestID string) map[string]any {
	return map[string]any{
		"@type":     ns + "OrderedContest",
		"ContestId": contestID,
	}
}

func OrderedHeader(headerID string, content ...map[string]any) map[string]any {
	return map[string]any{
		"@type":          ns + "OrderedHeader",
		"HeaderId":       headerID,
		"OrderedContent": anys(content),
	}
}

func BallotStyle(externalID string, gpUnitIDs []string, content ...map[string]any) map[string]any {
	ids := make([]any, len(gpUnitIDs))
	for i, g := range gpUnitIDs {
		ids[i] = g
	}
	bs := map[string]any{
		"@type":          ns + "BallotStyle",
		"GpUnitIds":      ids,
		"OrderedContent": anys(content),
	}
	if externalID != "" {
		bs["ExternalIdentifier"] = []any{
			map[string]any{
				"@type": ns + "ExternalIdentifier",
				"Type":  "other",
				"Value": externalID,
			},
		}
	}
	return bs
}

// Election builds an election holding its ballot styles, candidates and contests.
func Election(id, name string, ballotStyles, candidates, contests []map[string]any) map[string]any {
	return map[string]any{
		"@id":             id,
		"@type":           ns + "Election",
		"Name":            Text(name),
		"Type":            "general",
		"StartDate":       "2024-11-05",
		"EndDate":         "2024-11-05",
		"ElectionScopeId": "gp-spacetown",
		"BallotStyle":     anys(ballotStyles),
		"Candidate":       anys(candidates),
		"Contest":         anys(contests),
	}
}

// Report builds the document root.
func Report(elections, gpUnits, parties, offices []map[string]any) map[string]any {
	return map[string]any{
		"@type":               ns + "ElectionReport",
		"Format":              "precinct-level",
		"GeneratedDate":       "2024-06-01T12:00:00Z",
		"Issuer":              "TrustTheVote",
		"IssuerAbbreviation":  "TTV",
		"SequenceStart":       1,
		"SequenceEnd":         1,
		"Status":              "pre-election",
		"VendorApplicationId": "ElectionReporter",
		"Election":            anys(elections),
		"GpUnit":              anys(gpUnits),
		"Party":               anys(parties),
		"Office":              anys(offices),
	}
}

// Spacetown returns a complete single-election document with one ballot
// style. Its contests, in ballot order:
//
//   - contest-potus: two joint tickets. The Lepton ticket shares one party;
//     the fusion ticket's running mates belong to different parties.
//   - contest-mayor (under a header): two candidates plus a write-in.
//   - contest-measure-1 (nested one header deeper): a Yes/No measure.
func Spacetown() map[string]any {
	parties := []map[string]any{
		Party("party-lepton", "The Lepton Party", "LEP"),
		Party("party-hadron", "The Hadron Party of Farallon", "HAD"),
		Party("party-quark", "The Quark Party", "QUA"),
	}
	gpUnits := []map[string]any{
		GpUnit("gp-spacetown", "Spacetown"),
		GpUnit("gp-precinct-1", "Spacetown Precinct 1"),
		GpUnit("gp-orbit-city", "Orbit City"),
		GpUnit("gp-usa", "United States of America"),
	}
	offices := []map[string]any{
		Office("office-potus", "President"),
		Office("office-mayor", "Mayor"),
	}
	candidates := []map[string]any{
		Candidate("cand-alpha", "Anthony Alpha", "party-lepton"),
		Candidate("cand-beta", "Betty Beta", "party-lepton"),
		Candidate("cand-gamma", "Gloria Gamma", "party-hadron"),
		Candidate("cand-delta", "David Delta", "party-quark"),
		Candidate("cand-spacely", "Cosmo Spacely", "party-lepton"),
		Candidate("cand-cogswell", "Spencer Cogswell", "party-hadron"),
	}
	potus := CandidateContest("contest-potus", "President of the United States", "gp-usa", 1,
		CandidateSelection("sel-potus-lepton", "cand-alpha", "cand-beta"),
		CandidateSelection("sel-potus-fusion", "cand-gamma", "cand-delta"),
	)
	potus["OfficeIds"] = []any{"office-potus"}
	mayor := CandidateContest("contest-mayor", "Mayor of Orbit City", "gp-orbit-city", 1,
		CandidateSelection("sel-mayor-spacely", "cand-spacely"),
		CandidateSelection("sel-mayor-cogswell", "cand-cogswell"),
		WriteInSelection("sel-mayor-writein"),
	)
	mayor["OfficeIds"] = []any{"office-mayor"}
	measure := BallotMeasureContest("contest-measure-1", "Air Traffic Control Tax Increase", "gp-spacetown",
		[]string{"Shall Spacetown increase its sales tax?", "This measure funds air traffic control."},
		BallotMeasureSelection("sel-measure-yes", "Yes"),
		BallotMeasureSelection("sel-measure-no", "No"),
	)

	ballotStyle := BallotStyle("precinct_1_spacetown", []string{"gp-spacetown", "gp-precinct-1"},
		OrderedContest("contest-potus"),
		OrderedHeader("header-local",
			OrderedContest("contest-mayor"),
			OrderedHeader("header-measures",
				OrderedContest("contest-measure-1"),
			),
		),
	)

	election := Election("election-2024", "General Election", []map[string]any{ballotStyle}, candidates,
		[]map[string]any{potus, mayor, measure})
	election["Header"] = []any{
		map[string]any{"@id": "header-local", "@type": ns + "Header", "Name": Text("Local Contests")},
		map[string]any{"@id": "header-measures", "@type": ns + "Header", "Name": Text("Ballot Measures")},
	}

	return Report([]map[string]any{election}, gpUnits, parties, offices)
}

// JSON round-trips a fixture through encoding/json so numbers come back
// as json.Number, exactly as a decoded file would look.
func JSON(t *testing.T, doc map[string]any) map[string]any {
	t.Helper()

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return out
}

// WriteFile writes a fixture to a temp dir and returns its path.
func WriteFile(t *testing.T, name string, doc map[string]any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func anys(items []map[string]any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
