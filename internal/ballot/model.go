// Package ballot defines the ballot-ready records handed to rendering.
//
// Records are built from field-keyed mappings by validating constructors:
// every field is checked before a record is returned, so a partially valid
// record is never observable. Records are not modified after construction.
package ballot

import (
	"fmt"
	"reflect"
)

// ContestType discriminates contest records.
type ContestType string

const (
	ContestTypeBallotMeasure ContestType = "ballot measure"
	ContestTypeCandidate     ContestType = "candidate"
)

// ContestData is a CandidateContestData or a BallotMeasureContestData.
type ContestData interface {
	ContestID() string
	ContestType() ContestType
	ToMap() map[string]any
	isContest()
}

// PartyData is a party as printed next to a candidate.
type PartyData struct {
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
}

var partyFields = []field{
	{"name", "string"},
	{"abbreviation", "string"},
}

// NewPartyData builds a PartyData from a mapping.
func NewPartyData(raw map[string]any) (PartyData, error) {
	r := newReader("PartyData", raw, partyFields)
	p := PartyData{
		Name:         r.str("name"),
		Abbreviation: r.str("abbreviation"),
	}
	if r.err != nil {
		return PartyData{}, r.err
	}
	return p, nil
}

func (p PartyData) ToMap() map[string]any {
	return map[string]any{
		"name":         p.Name,
		"abbreviation": p.Abbreviation,
	}
}

// CandidateChoiceData is one selectable slate in a candidate contest.
// A write-in has no names and no parties.
type CandidateChoiceData struct {
	ID        string      `json:"id" yaml:"id"`
	Name      []string    `json:"name" yaml:"name"`
	Party     []PartyData `json:"party" yaml:"party"`
	IsWriteIn bool        `json:"is_write_in" yaml:"is_write_in"`
}

var candidateChoiceFields = []field{
	{"id", "string"},
	{"name", "list of string"},
	{"party", "list of PartyData"},
	{"is_write_in", "bool"},
}

// NewCandidateChoiceData builds a CandidateChoiceData from a mapping.
func NewCandidateChoiceData(raw map[string]any) (CandidateChoiceData, error) {
	r := newReader("CandidateChoiceData", raw, candidateChoiceFields)
	c := CandidateChoiceData{
		ID:   r.str("id"),
		Name: r.strs("name"),
	}
	c.Party = records(r, "party", NewPartyData)
	c.IsWriteIn = r.boolean("is_write_in")
	if r.err != nil {
		return CandidateChoiceData{}, r.err
	}
	return c, nil
}

func (c CandidateChoiceData) ToMap() map[string]any {
	names := make([]any, len(c.Name))
	for i, n := range c.Name {
		names[i] = n
	}
	parties := make([]any, len(c.Party))
	for i, p := range c.Party {
		parties[i] = p.ToMap()
	}
	return map[string]any{
		"id":          c.ID,
		"name":        names,
		"party":       parties,
		"is_write_in": c.IsWriteIn,
	}
}

// CandidateContestData is a candidate contest as it appears on a ballot.
type CandidateContestData struct {
	ID           string                `json:"id" yaml:"id"`
	Type         ContestType           `json:"type" yaml:"type"`
	Title        string                `json:"title" yaml:"title"`
	District     string                `json:"district" yaml:"district"`
	VoteType     string                `json:"vote_type" yaml:"vote_type"`
	VotesAllowed int                   `json:"votes_allowed" yaml:"votes_allowed"`
	Candidates   []CandidateChoiceData `json:"candidates" yaml:"candidates"`
}

var candidateContestFields = []field{
	{"id", "string"},
	{"type", "string"},
	{"title", "string"},
	{"district", "string"},
	{"vote_type", "string"},
	{"votes_allowed", "int"},
	{"candidates", "list of CandidateChoiceData"},
}

// NewCandidateContestData builds a CandidateContestData from a mapping.
func NewCandidateContestData(raw map[string]any) (CandidateContestData, error) {
	r := newReader("CandidateContestData", raw, candidateContestFields)
	c := CandidateContestData{
		ID:           r.str("id"),
		Type:         contestType(r, ContestTypeCandidate),
		Title:        r.str("title"),
		District:     r.str("district"),
		VoteType:     r.str("vote_type"),
		VotesAllowed: r.integer("votes_allowed"),
	}
	c.Candidates = records(r, "candidates", NewCandidateChoiceData)
	if r.err != nil {
		return CandidateContestData{}, r.err
	}
	return c, nil
}

func (c CandidateContestData) ContestID() string        { return c.ID }
func (c CandidateContestData) ContestType() ContestType { return ContestTypeCandidate }
func (CandidateContestData) isContest()                 {}

func (c CandidateContestData) ToMap() map[string]any {
	candidates := make([]any, len(c.Candidates))
	for i, cand := range c.Candidates {
		candidates[i] = cand.ToMap()
	}
	return map[string]any{
		"id":            c.ID,
		"type":          string(ContestTypeCandidate),
		"title":         c.Title,
		"district":      c.District,
		"vote_type":     c.VoteType,
		"votes_allowed": c.VotesAllowed,
		"candidates":    candidates,
	}
}

// Equal reports structural equality.
func (c CandidateContestData) Equal(other CandidateContestData) bool {
	return reflect.DeepEqual(c, other)
}

// BallotChoiceData is one choice in a ballot measure contest.
type BallotChoiceData struct {
	ID     string `json:"id" yaml:"id"`
	Choice string `json:"choice" yaml:"choice"`
}

var ballotChoiceFields = []field{
	{"id", "string"},
	{"choice", "string"},
}

// NewBallotChoiceData builds a BallotChoiceData from a mapping.
func NewBallotChoiceData(raw map[string]any) (BallotChoiceData, error) {
	r := newReader("BallotChoiceData", raw, ballotChoiceFields)
	c := BallotChoiceData{
		ID:     r.str("id"),
		Choice: r.str("choice"),
	}
	if r.err != nil {
		return BallotChoiceData{}, r.err
	}
	return c, nil
}

func (c BallotChoiceData) ToMap() map[string]any {
	return map[string]any{
		"id":     c.ID,
		"choice": c.Choice,
	}
}

// BallotMeasureContestData is a ballot measure as it appears on a ballot.
type BallotMeasureContestData struct {
	ID       string             `json:"id" yaml:"id"`
	Type     ContestType        `json:"type" yaml:"type"`
	Title    string             `json:"title" yaml:"title"`
	District string             `json:"district" yaml:"district"`
	Text     string             `json:"text" yaml:"text"`
	Choices  []BallotChoiceData `json:"choices" yaml:"choices"`
}

var ballotMeasureContestFields = []field{
	{"id", "string"},
	{"type", "string"},
	{"title", "string"},
	{"district", "string"},
	{"text", "string"},
	{"choices", "list of BallotChoiceData"},
}

// NewBallotMeasureContestData builds a BallotMeasureContestData from a mapping.
func NewBallotMeasureContestData(raw map[string]any) (BallotMeasureContestData, error) {
	r := newReader("BallotMeasureContestData", raw, ballotMeasureContestFields)
	c := BallotMeasureContestData{
		ID:       r.str("id"),
		Type:     contestType(r, ContestTypeBallotMeasure),
		Title:    r.str("title"),
		District: r.str("district"),
		Text:     r.str("text"),
	}
	c.Choices = records(r, "choices", NewBallotChoiceData)
	if r.err != nil {
		return BallotMeasureContestData{}, r.err
	}
	return c, nil
}

func (c BallotMeasureContestData) ContestID() string        { return c.ID }
func (c BallotMeasureContestData) ContestType() ContestType { return ContestTypeBallotMeasure }
func (BallotMeasureContestData) isContest()                 {}

func (c BallotMeasureContestData) ToMap() map[string]any {
	choices := make([]any, len(c.Choices))
	for i, ch := range c.Choices {
		choices[i] = ch.ToMap()
	}
	return map[string]any{
		"id":       c.ID,
		"type":     string(ContestTypeBallotMeasure),
		"title":    c.Title,
		"district": c.District,
		"text":     c.Text,
		"choices":  choices,
	}
}

// Equal reports structural equality.
func (c BallotMeasureContestData) Equal(other BallotMeasureContestData) bool {
	return reflect.DeepEqual(c, other)
}

// contestType reads the "type" field of a concrete contest record and
// checks it names that record's type.
func contestType(r *reader, want ContestType) ContestType {
	s := r.str("type")
	if r.err == nil && ContestType(s) != want {
		r.fail("type", fmt.Errorf("%w: %q", ErrUnknownContestType, s))
	}
	return want
}

// BallotStyleData holds the contests of one ballot style in ballot order.
// Contest kinds are interleaved as the document orders them.
type BallotStyleData struct {
	ID       string        `json:"id" yaml:"id"`
	Scopes   []string      `json:"scopes" yaml:"scopes"`
	Contests []ContestData `json:"contests" yaml:"contests"`
}

var ballotStyleFields = []field{
	{"id", "string"},
	{"scopes", "list of string"},
	{"contests", "list of contest"},
}

// NewBallotStyleData builds a BallotStyleData from a mapping. Each contest
// entry is dispatched on its "type" field.
func NewBallotStyleData(raw map[string]any) (BallotStyleData, error) {
	r := newReader("BallotStyleData", raw, ballotStyleFields)
	bs := BallotStyleData{
		ID:     r.str("id"),
		Scopes: r.strs("scopes"),
	}
	bs.Contests = records(r, "contests", newContestData)
	if r.err != nil {
		return BallotStyleData{}, r.err
	}
	return bs, nil
}

// NewContestData dispatches a contest mapping on its "type" field.
func NewContestData(raw map[string]any) (ContestData, error) {
	return newContestData(raw)
}

func newContestData(raw map[string]any) (ContestData, error) {
	v, ok := raw["type"]
	if !ok {
		return nil, &FieldError{Record: "ContestData", Field: "type", Expected: "string", Err: ErrMissingDiscriminator}
	}
	s, ok := v.(string)
	if !ok {
		return nil, &FieldError{Record: "ContestData", Field: "type", Expected: "string", Err: fmt.Errorf("%w: got %s", ErrWrongType, describe(v))}
	}
	switch ContestType(s) {
	case ContestTypeCandidate:
		return NewCandidateContestData(raw)
	case ContestTypeBallotMeasure:
		return NewBallotMeasureContestData(raw)
	}
	return nil, &FieldError{
		Record:   "ContestData",
		Field:    "type",
		Expected: `"candidate" or "ballot measure"`,
		Err:      fmt.Errorf("%w: %q", ErrUnknownContestType, s),
	}
}

func (bs BallotStyleData) ToMap() map[string]any {
	scopes := make([]any, len(bs.Scopes))
	for i, s := range bs.Scopes {
		scopes[i] = s
	}
	contests := make([]any, len(bs.Contests))
	for i, c := range bs.Contests {
		contests[i] = c.ToMap()
	}
	return map[string]any{
		"id":       bs.ID,
		"scopes":   scopes,
		"contests": contests,
	}
}

// Equal reports structural equality.
func (bs BallotStyleData) Equal(other BallotStyleData) bool {
	return reflect.DeepEqual(bs, other)
}

// ElectionData is one election and its ballot styles.
// Dates are kept as the YYYY-MM-DD strings the extractor produces.
type ElectionData struct {
	Name         string            `json:"name" yaml:"name"`
	Type         string            `json:"type" yaml:"type"`
	StartDate    string            `json:"start_date" yaml:"start_date"`
	EndDate      string            `json:"end_date" yaml:"end_date"`
	BallotStyles []BallotStyleData `json:"ballot_styles" yaml:"ballot_styles"`
}

var electionFields = []field{
	{"name", "string"},
	{"type", "string"},
	{"start_date", "string"},
	{"end_date", "string"},
	{"ballot_styles", "list of BallotStyleData"},
}

// NewElectionData builds an ElectionData from a mapping.
func NewElectionData(raw map[string]any) (ElectionData, error) {
	r := newReader("ElectionData", raw, electionFields)
	e := ElectionData{
		Name:      r.str("name"),
		Type:      r.str("type"),
		StartDate: r.str("start_date"),
		EndDate:   r.str("end_date"),
	}
	e.BallotStyles = records(r, "ballot_styles", NewBallotStyleData)
	if r.err != nil {
		return ElectionData{}, r.err
	}
	return e, nil
}

func (e ElectionData) ToMap() map[string]any {
	styles := make([]any, len(e.BallotStyles))
	for i, bs := range e.BallotStyles {
		styles[i] = bs.ToMap()
	}
	return map[string]any{
		"name":          e.Name,
		"type":          e.Type,
		"start_date":    e.StartDate,
		"end_date":      e.EndDate,
		"ballot_styles": styles,
	}
}

// Equal reports structural equality.
func (e ElectionData) Equal(other ElectionData) bool {
	return reflect.DeepEqual(e, other)
}
