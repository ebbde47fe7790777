// Package edf models the NIST SP 1500-100 election definition document
// as a graph of typed elements.
//
// Elements never point at each other directly. Cross references are carried
// as ids and resolved through an index (see package index).
package edf

import (
	"strings"
	"time"
)

// Namespace is the type prefix used by election definition documents.
const Namespace = "ElectionResults"

// Element is any typed object in the document graph.
type Element interface {
	// ElementID returns the document-wide id, or "" for anonymous objects.
	ElementID() string
	// ElementType returns the type as written in the document (e.g. "ElectionResults.Party").
	ElementType() string
	// Children returns the typed objects directly nested in this element.
	Children() []Element
}

// Base carries the identity shared by all elements plus any nested typed
// objects found in fields the concrete kind does not model.
type Base struct {
	ID    string
	Type  string
	extra []Element
}

func (b *Base) ElementID() string   { return b.ID }
func (b *Base) ElementType() string { return b.Type }

// Kind strips the namespace prefix from a type name.
func Kind(typeName string) string {
	if i := strings.LastIndexByte(typeName, '.'); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}

// LanguageString is one localized line of text.
type LanguageString struct {
	Content  string
	Language string
}

// Text is an InternationalizedText value.
type Text struct {
	Strings []LanguageString
}

// Content joins every localized line with newlines.
func (t Text) Content() string {
	lines := make([]string, len(t.Strings))
	for i, s := range t.Strings {
		lines[i] = s.Content
	}
	return strings.Join(lines, "\n")
}

// ExternalIdentifier labels an element with an identifier from another system.
type ExternalIdentifier struct {
	Type  string
	Value string
}

// ElectionReport is the document root.
type ElectionReport struct {
	Base
	Elections []*Election
}

func (r *ElectionReport) Children() []Element {
	out := make([]Element, 0, len(r.Elections)+len(r.extra))
	for _, e := range r.Elections {
		out = append(out, e)
	}
	return append(out, r.extra...)
}

// Election holds the ballot styles of a single election.
type Election struct {
	Base
	Name         Text
	ElectionType string
	StartDate    time.Time
	EndDate      time.Time
	BallotStyles []*BallotStyle
}

func (e *Election) Children() []Element {
	out := make([]Element, 0, len(e.BallotStyles)+len(e.extra))
	for _, bs := range e.BallotStyles {
		out = append(out, bs)
	}
	return append(out, e.extra...)
}

// BallotStyle is one ballot variant and the order its contests appear in.
type BallotStyle struct {
	Base
	ExternalIdentifiers []ExternalIdentifier
	GpUnitIDs           []string
	// OrderedContent holds *OrderedContest and *OrderedHeader entries.
	// Anything else is kept so the walker can reject it.
	OrderedContent []Element
}

func (bs *BallotStyle) Children() []Element {
	return concat(bs.OrderedContent, bs.extra)
}

// OrderedContest places a contest on a ballot style.
type OrderedContest struct {
	Base
	ContestID string
}

func (oc *OrderedContest) Children() []Element { return oc.extra }

// OrderedHeader groups ordered content under a header.
type OrderedHeader struct {
	Base
	HeaderID       string
	OrderedContent []Element
}

func (oh *OrderedHeader) Children() []Element {
	return concat(oh.OrderedContent, oh.extra)
}

// Contest is implemented by every contest kind.
type Contest interface {
	Element
	ContestName() string
	DistrictID() string
	contest()
}

// CandidateContest is a contest between candidates or slates.
type CandidateContest struct {
	Base
	Name               string
	ElectionDistrictID string
	// Selections is expected to hold *CandidateSelection entries.
	Selections      []Element
	OfficeIDs       []string
	PrimaryPartyIDs []string
	VotesAllowed    int
	VoteVariation   string
}

func (c *CandidateContest) Children() []Element { return concat(c.Selections, c.extra) }
func (c *CandidateContest) ContestName() string  { return c.Name }
func (c *CandidateContest) DistrictID() string   { return c.ElectionDistrictID }
func (*CandidateContest) contest()               {}

// BallotMeasureContest is a yes/no style question put to voters.
type BallotMeasureContest struct {
	Base
	Name               string
	ElectionDistrictID string
	// Selections is expected to hold *BallotMeasureSelection entries.
	Selections []Element
	FullText   Text
}

func (c *BallotMeasureContest) Children() []Element { return concat(c.Selections, c.extra) }
func (c *BallotMeasureContest) ContestName() string  { return c.Name }
func (c *BallotMeasureContest) DistrictID() string   { return c.ElectionDistrictID }
func (*BallotMeasureContest) contest()               {}

// OtherContest is a contest kind ballots are not generated for
// (party contests, retention contests, and kinds this package does not know).
type OtherContest struct {
	Base
	Name               string
	ElectionDistrictID string
}

func (c *OtherContest) Children() []Element { return c.extra }
func (c *OtherContest) ContestName() string  { return c.Name }
func (c *OtherContest) DistrictID() string   { return c.ElectionDistrictID }
func (*OtherContest) contest()               {}

// CandidateSelection is one slate in a candidate contest. A write-in
// placeholder has no candidates.
type CandidateSelection struct {
	Base
	CandidateIDs []string
	IsWriteIn    bool
}

func (s *CandidateSelection) Children() []Element { return s.extra }

// BallotMeasureSelection is one choice in a ballot measure contest.
type BallotMeasureSelection struct {
	Base
	Selection Text
}

func (s *BallotMeasureSelection) Children() []Element { return s.extra }

// Candidate is a person as they appear on the ballot.
type Candidate struct {
	Base
	BallotName Text
	PartyID    string
}

func (c *Candidate) Children() []Element { return c.extra }

// Party is a political party.
type Party struct {
	Base
	Name         Text
	Abbreviation Text
}

func (p *Party) Children() []Element { return p.extra }

// GpUnit is a geo-political unit (ReportingUnit in the document).
type GpUnit struct {
	Base
	Name Text
}

func (u *GpUnit) Children() []Element { return u.extra }

// Office is an office being contested.
type Office struct {
	Base
	Name Text
}

func (o *Office) Children() []Element { return o.extra }

// Header is the text shown above a group of ordered content.
type Header struct {
	Base
	Name Text
}

func (h *Header) Children() []Element { return h.extra }

// Generic stands in for kinds this package does not model. Its nested
// typed objects are still part of the graph.
type Generic struct {
	Base
}

func (g *Generic) Children() []Element { return g.extra }

func concat(a, b []Element) []Element {
	out := make([]Element, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
