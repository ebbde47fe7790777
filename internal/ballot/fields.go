package ballot

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// field declares one required field of a record and the shape it must have.
type field struct {
	name     string
	expected string
}

// reader pulls typed values out of a raw mapping. The first violation is
// kept; later reads return zero values.
type reader struct {
	record string
	raw    map[string]any
	fields []field
	err    error
}

// newReader checks that every declared field is present, in declaration
// order, and that no undeclared fields are present.
func newReader(record string, raw map[string]any, fields []field) *reader {
	r := &reader{record: record, raw: raw, fields: fields}
	if raw == nil {
		r.err = &FieldError{Record: record, Field: "(record)", Expected: "mapping", Err: ErrWrongType}
		return r
	}

	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.name] = true
		if _, ok := raw[f.name]; !ok {
			r.fail(f.name, ErrMissingField)
			return r
		}
	}

	var extra []string
	for k := range raw {
		if !declared[k] {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		r.err = &FieldError{Record: record, Field: extra[0], Err: ErrUnexpectedField}
	}
	return r
}

func (r *reader) expected(name string) string {
	for _, f := range r.fields {
		if f.name == name {
			return f.expected
		}
	}
	return ""
}

func (r *reader) fail(name string, err error) {
	if r.err == nil {
		r.err = &FieldError{Record: r.record, Field: name, Expected: r.expected(name), Err: err}
	}
}

func (r *reader) wrongType(name string, v any) {
	r.fail(name, fmt.Errorf("%w: got %s", ErrWrongType, describe(v)))
}

func (r *reader) str(name string) string {
	if r.err != nil {
		return ""
	}
	v := r.raw[name]
	s, ok := v.(string)
	if !ok {
		r.wrongType(name, v)
	}
	return s
}

func (r *reader) integer(name string) int {
	if r.err != nil {
		return 0
	}
	v := r.raw[name]
	n, ok := asInt(v)
	if !ok {
		r.wrongType(name, v)
	}
	return n
}

func (r *reader) boolean(name string) bool {
	if r.err != nil {
		return false
	}
	v := r.raw[name]
	b, ok := v.(bool)
	if !ok {
		r.wrongType(name, v)
	}
	return b
}

func (r *reader) list(name string) []any {
	if r.err != nil {
		return nil
	}
	v := r.raw[name]
	items, ok := asList(v)
	if !ok {
		r.wrongType(name, v)
	}
	return items
}

func (r *reader) strs(name string) []string {
	items := r.list(name)
	if r.err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(name, fmt.Errorf("%w: list holds %s", ErrWrongType, describe(item)))
			return nil
		}
		out = append(out, s)
	}
	return out
}

// records converts every entry of a list field with build, prefixing
// nested errors with the entry's position.
func records[T any](r *reader, name string, build func(map[string]any) (T, error)) []T {
	items := r.list(name)
	if r.err != nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		at := fmt.Sprintf("%s[%d]", name, i)
		m, ok := asMap(item)
		if !ok {
			r.err = &FieldError{Record: r.record, Field: at, Expected: "mapping", Err: fmt.Errorf("%w: got %s", ErrWrongType, describe(item))}
			return nil
		}
		rec, err := build(m)
		if err != nil {
			r.err = nest(at, err)
			return nil
		}
		out = append(out, rec)
	}
	return out
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if int64(int(n)) == n {
			return int(n), true
		}
	case uint:
		if n <= math.MaxInt {
			return int(n), true
		}
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if uint64(n) <= math.MaxInt {
			return int(n), true
		}
	case uint64:
		if n <= math.MaxInt {
			return int(n), true
		}
	case float64:
		// 2^63 is exact as a float64; anything at or past it overflows int64.
		if n == math.Trunc(n) && n >= math.MinInt64 && n < -math.MinInt64 {
			if i := int64(n); int64(int(i)) == i {
				return int(i), true
			}
		}
	case json.Number:
		if i, err := n.Int64(); err == nil && int64(int(i)) == i {
			return int(i), true
		}
	}
	return 0, false
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "mapping"
	}
	if _, ok := asInt(v); ok {
		return "int"
	}
	if _, ok := v.(json.Number); ok {
		return "number"
	}
	if _, ok := asList(v); ok {
		return "list"
	}
	return fmt.Sprintf("%T", v)
}
