package edf

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Sentinel errors for document decoding.
var (
	// ErrMissingType is returned when an object that must be typed has no @type.
	ErrMissingType = errors.New("missing @type")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidValue is returned when a field has the wrong JSON shape.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotElectionReport is returned when the document root is some other kind.
	ErrNotElectionReport = errors.New("document root is not an ElectionReport")
)

// DateLayout is the layout of StartDate and EndDate values.
const DateLayout = "2006-01-02"

// DecodeError locates a decoding failure within the document.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type decodeFunc func(o *object) Element

// kinds maps unqualified type names to their decoders.
var kinds map[string]decodeFunc

func init() {
	kinds = map[string]decodeFunc{
		"ElectionReport":         decodeElectionReport,
		"Election":               decodeElection,
		"BallotStyle":            decodeBallotStyle,
		"OrderedContest":         decodeOrderedContest,
		"OrderedHeader":          decodeOrderedHeader,
		"CandidateContest":       decodeCandidateContest,
		"BallotMeasureContest":   decodeBallotMeasureContest,
		"PartyContest":           decodeOtherContest,
		"RetentionContest":       decodeOtherContest,
		"CandidateSelection":     decodeCandidateSelection,
		"BallotMeasureSelection": decodeBallotMeasureSelection,
		"Candidate":              decodeCandidate,
		"Party":                  decodeParty,
		"Coalition":              decodeParty,
		"ReportingUnit":          decodeGpUnit,
		"ReportingDevice":        decodeGpUnit,
		"Office":                 decodeOffice,
		"Header":                 decodeHeader,
	}
}

// Decode converts a parsed JSON document into its typed element graph.
func Decode(doc map[string]any) (*ElectionReport, error) {
	el, err := decodeElement(doc, "$")
	if err != nil {
		return nil, err
	}
	report, ok := el.(*ElectionReport)
	if !ok {
		return nil, &DecodeError{Path: "$", Err: fmt.Errorf("%w: got %s", ErrNotElectionReport, el.ElementType())}
	}
	return report, nil
}

func decodeElement(m map[string]any, path string) (Element, error) {
	typeName, _ := m["@type"].(string)
	if typeName == "" {
		return nil, &DecodeError{Path: path, Err: ErrMissingType}
	}

	o := &object{m: m, path: path, used: map[string]bool{"@type": true}}
	id := o.str("@id", false)

	decode, ok := kinds[Kind(typeName)]
	switch {
	case ok:
	case strings.HasSuffix(Kind(typeName), "Contest"):
		decode = decodeOtherContest
	default:
		decode = decodeGeneric
	}

	el := decode(o)
	if o.err != nil {
		return nil, o.err
	}
	o.base.ID = id
	o.base.Type = typeName
	o.base.extra = append(o.kept, o.rest()...)
	if o.err != nil {
		return nil, o.err
	}
	return el, nil
}

// object reads fields from one JSON object, remembering which were consumed.
// The first failure sticks; later reads return zero values.
type object struct {
	m    map[string]any
	path string
	used map[string]bool
	base *Base
	kept []Element // typed objects read by modeled fields
	err  error
}

func (o *object) fail(key string, err error) {
	if o.err == nil {
		o.err = &DecodeError{Path: o.path + "." + key, Err: err}
	}
}

// keep decodes a typed object that a modeled field has read, so it stays
// part of the graph like any other nested element.
func (o *object) keep(m map[string]any, path string) {
	if _, typed := m["@type"]; !typed || o.err != nil {
		return
	}
	el, err := decodeElement(m, path)
	if err != nil {
		o.err = err
		return
	}
	o.kept = append(o.kept, el)
}

func (o *object) get(key string, required bool) (any, bool) {
	o.used[key] = true
	v, ok := o.m[key]
	if !ok || v == nil {
		if required {
			o.fail(key, ErrMissingField)
		}
		return nil, false
	}
	return v, true
}

func (o *object) str(key string, required bool) string {
	v, ok := o.get(key, required)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		o.fail(key, fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, v))
	}
	return s
}

func (o *object) strs(key string) []string {
	v, ok := o.get(key, false)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		o.fail(key, fmt.Errorf("%w: expected array of strings, got %T", ErrInvalidValue, v))
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			o.fail(fmt.Sprintf("%s[%d]", key, i), fmt.Errorf("%w: expected string, got %T", ErrInvalidValue, item))
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (o *object) integer(key string, required bool) int {
	v, ok := o.get(key, required)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			o.fail(key, fmt.Errorf("%w: expected integer, got %s", ErrInvalidValue, n))
		}
		return int(i)
	case float64:
		if n != math.Trunc(n) {
			o.fail(key, fmt.Errorf("%w: expected integer, got %v", ErrInvalidValue, n))
		}
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	o.fail(key, fmt.Errorf("%w: expected integer, got %T", ErrInvalidValue, v))
	return 0
}

func (o *object) boolean(key string) bool {
	v, ok := o.get(key, false)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		o.fail(key, fmt.Errorf("%w: expected boolean, got %T", ErrInvalidValue, v))
	}
	return b
}

func (o *object) date(key string) time.Time {
	s := o.str(key, true)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		o.fail(key, fmt.Errorf("%w: expected date YYYY-MM-DD, got %q", ErrInvalidValue, s))
	}
	return t
}

func (o *object) text(key string, required bool) Text {
	v, ok := o.get(key, required)
	if !ok {
		return Text{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		o.fail(key, fmt.Errorf("%w: expected InternationalizedText, got %T", ErrInvalidValue, v))
		return Text{}
	}
	o.keep(m, o.path+"."+key)
	items, ok := m["Text"].([]any)
	if !ok {
		o.fail(key+".Text", ErrMissingField)
		return Text{}
	}
	var t Text
	for i, item := range items {
		ls, ok := item.(map[string]any)
		if !ok {
			o.fail(fmt.Sprintf("%s.Text[%d]", key, i), fmt.Errorf("%w: expected LanguageString, got %T", ErrInvalidValue, item))
			return Text{}
		}
		content, ok := ls["Content"].(string)
		if !ok {
			o.fail(fmt.Sprintf("%s.Text[%d].Content", key, i), ErrMissingField)
			return Text{}
		}
		lang, _ := ls["Language"].(string)
		t.Strings = append(t.Strings, LanguageString{Content: content, Language: lang})
	}
	return t
}

func (o *object) externalIDs(key string) []ExternalIdentifier {
	v, ok := o.get(key, false)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		o.fail(key, fmt.Errorf("%w: expected array, got %T", ErrInvalidValue, v))
		return nil
	}
	out := make([]ExternalIdentifier, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			o.fail(fmt.Sprintf("%s[%d]", key, i), fmt.Errorf("%w: expected ExternalIdentifier, got %T", ErrInvalidValue, item))
			return nil
		}
		o.keep(m, fmt.Sprintf("%s.%s[%d]", o.path, key, i))
		value, ok := m["Value"].(string)
		if !ok {
			o.fail(fmt.Sprintf("%s[%d].Value", key, i), ErrMissingField)
			return nil
		}
		typ, _ := m["Type"].(string)
		out = append(out, ExternalIdentifier{Type: typ, Value: value})
	}
	return out
}

func (o *object) elements(key string) []Element {
	v, ok := o.get(key, false)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		o.fail(key, fmt.Errorf("%w: expected array, got %T", ErrInvalidValue, v))
		return nil
	}
	out := make([]Element, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			o.fail(fmt.Sprintf("%s[%d]", key, i), fmt.Errorf("%w: expected object, got %T", ErrInvalidValue, item))
			return nil
		}
		el, err := decodeElement(m, fmt.Sprintf("%s.%s[%d]", o.path, key, i))
		if err != nil {
			if o.err == nil {
				o.err = err
			}
			return nil
		}
		out = append(out, el)
	}
	return out
}

// rest decodes typed objects nested in fields that were not consumed.
func (o *object) rest() []Element {
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		if !o.used[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []Element
	for _, k := range keys {
		out = o.scan(out, o.m[k], o.path+"."+k)
		if o.err != nil {
			return nil
		}
	}
	return out
}

func (o *object) scan(out []Element, v any, path string) []Element {
	switch n := v.(type) {
	case map[string]any:
		if _, typed := n["@type"]; typed {
			el, err := decodeElement(n, path)
			if err != nil {
				if o.err == nil {
					o.err = err
				}
				return out
			}
			return append(out, el)
		}
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = o.scan(out, n[k], path+"."+k)
		}
	case []any:
		for i, item := range n {
			out = o.scan(out, item, fmt.Sprintf("%s[%d]", path, i))
		}
	}
	return out
}

func decodeElectionReport(o *object) Element {
	r := &ElectionReport{}
	for _, el := range o.elements("Election") {
		e, ok := el.(*Election)
		if !ok {
			o.fail("Election", fmt.Errorf("%w: expected Election, got %s", ErrInvalidValue, el.ElementType()))
			break
		}
		r.Elections = append(r.Elections, e)
	}
	o.base = &r.Base
	return r
}

func decodeElection(o *object) Element {
	e := &Election{
		Name:         o.text("Name", true),
		ElectionType: o.str("Type", true),
		StartDate:    o.date("StartDate"),
		EndDate:      o.date("EndDate"),
	}
	for _, el := range o.elements("BallotStyle") {
		bs, ok := el.(*BallotStyle)
		if !ok {
			o.fail("BallotStyle", fmt.Errorf("%w: expected BallotStyle, got %s", ErrInvalidValue, el.ElementType()))
			break
		}
		e.BallotStyles = append(e.BallotStyles, bs)
	}
	o.base = &e.Base
	return e
}

func decodeBallotStyle(o *object) Element {
	bs := &BallotStyle{
		ExternalIdentifiers: o.externalIDs("ExternalIdentifier"),
		GpUnitIDs:           o.strs("GpUnitIds"),
		OrderedContent:      o.elements("OrderedContent"),
	}
	o.base = &bs.Base
	return bs
}

func decodeOrderedContest(o *object) Element {
	oc := &OrderedContest{ContestID: o.str("ContestId", true)}
	o.base = &oc.Base
	return oc
}

func decodeOrderedHeader(o *object) Element {
	oh := &OrderedHeader{
		HeaderID:       o.str("HeaderId", false),
		OrderedContent: o.elements("OrderedContent"),
	}
	o.base = &oh.Base
	return oh
}

func decodeCandidateContest(o *object) Element {
	c := &CandidateContest{
		Name:               o.str("Name", true),
		ElectionDistrictID: o.str("ElectionDistrictId", true),
		Selections:         o.elements("ContestSelection"),
		OfficeIDs:          o.strs("OfficeIds"),
		PrimaryPartyIDs:    o.strs("PrimaryPartyIds"),
		VotesAllowed:       o.integer("VotesAllowed", true),
		VoteVariation:      o.str("VoteVariation", true),
	}
	o.base = &c.Base
	return c
}

func decodeBallotMeasureContest(o *object) Element {
	c := &BallotMeasureContest{
		Name:               o.str("Name", true),
		ElectionDistrictID: o.str("ElectionDistrictId", true),
		Selections:         o.elements("ContestSelection"),
		FullText:           o.text("FullText", true),
	}
	o.base = &c.Base
	return c
}

func decodeOtherContest(o *object) Element {
	c := &OtherContest{
		Name:               o.str("Name", false),
		ElectionDistrictID: o.str("ElectionDistrictId", false),
	}
	o.base = &c.Base
	return c
}

func decodeCandidateSelection(o *object) Element {
	s := &CandidateSelection{
		CandidateIDs: o.strs("CandidateIds"),
		IsWriteIn:    o.boolean("IsWriteIn"),
	}
	o.base = &s.Base
	return s
}

func decodeBallotMeasureSelection(o *object) Element {
	s := &BallotMeasureSelection{Selection: o.text("Selection", true)}
	o.base = &s.Base
	return s
}

func decodeCandidate(o *object) Element {
	c := &Candidate{
		BallotName: o.text("BallotName", true),
		PartyID:    o.str("PartyId", false),
	}
	o.base = &c.Base
	return c
}

func decodeParty(o *object) Element {
	p := &Party{
		Name:         o.text("Name", true),
		Abbreviation: o.text("Abbreviation", false),
	}
	o.base = &p.Base
	return p
}

func decodeGpUnit(o *object) Element {
	u := &GpUnit{Name: o.text("Name", false)}
	o.base = &u.Base
	return u
}

func decodeOffice(o *object) Element {
	off := &Office{Name: o.text("Name", true)}
	o.base = &off.Base
	return off
}

func decodeHeader(o *object) Element {
	h := &Header{Name: o.text("Name", false)}
	o.base = &h.Base
	return h
}

func decodeGeneric(o *object) Element {
	g := &Generic{}
	o.base = &g.Base
	return g
}
