// Package index resolves cross references in an election definition.
//
// An Index is built once over the whole document graph and is read-only
// afterwards, so it may be shared by concurrent readers.
package index

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/jackzampolin/ballotmaker/internal/edf"
)

// Sentinel errors for the index package.
var (
	// ErrNotFound is returned when an id does not appear in the document.
	ErrNotFound = errors.New("id not found")

	// ErrDuplicateID is returned when an id appears on more than one element.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrKindMismatch is returned when an id resolves to an element of an unexpected kind.
	ErrKindMismatch = errors.New("unexpected element kind")
)

// Index maps ids and qualified type names to elements.
type Index struct {
	namespace string
	byID      map[string]edf.Element
	dups      map[string]int
	byType    map[string][]edf.Element
	types     []string // first-seen order
	count     int
}

// Build walks the graph rooted at root once and indexes every element.
// Type names without a namespace prefix are qualified with namespace.
func Build(root edf.Element, namespace string) *Index {
	ix := &Index{
		namespace: namespace,
		byID:      make(map[string]edf.Element),
		dups:      make(map[string]int),
		byType:    make(map[string][]edf.Element),
	}
	if root != nil {
		ix.visit(root)
	}
	return ix
}

func (ix *Index) visit(el edf.Element) {
	ix.count++

	if id := el.ElementID(); id != "" {
		if _, exists := ix.byID[id]; exists {
			ix.dups[id]++
		} else {
			ix.byID[id] = el
		}
	}

	name := ix.qualify(el.ElementType())
	if _, seen := ix.byType[name]; !seen {
		ix.types = append(ix.types, name)
	}
	ix.byType[name] = append(ix.byType[name], el)

	for _, child := range el.Children() {
		ix.visit(child)
	}
}

func (ix *Index) qualify(typeName string) string {
	if ix.namespace == "" || strings.Contains(typeName, ".") {
		return typeName
	}
	return ix.namespace + "." + typeName
}

// Namespace returns the namespace used to qualify type names.
func (ix *Index) Namespace() string { return ix.namespace }

// ByID returns the element with the given id.
func (ix *Index) ByID(id string) (edf.Element, error) {
	if n := ix.dups[id]; n > 0 {
		return nil, fmt.Errorf("%w: %q appears %d times", ErrDuplicateID, id, n+1)
	}
	el, ok := ix.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return el, nil
}

// ByType returns every element of the given type in document order.
// The name is qualified with the index namespace if it has no prefix.
func (ix *Index) ByType(typeName string) []edf.Element {
	els := ix.byType[ix.qualify(typeName)]
	out := make([]edf.Element, len(els))
	copy(out, els)
	return out
}

// Types returns the qualified type names seen, in first-encountered order.
func (ix *Index) Types() []string {
	out := make([]string, len(ix.types))
	copy(out, ix.types)
	return out
}

// Len returns the number of elements visited.
func (ix *Index) Len() int { return ix.count }

// DuplicateIDs returns ids that appear on more than one element, sorted.
func (ix *Index) DuplicateIDs() []string {
	ids := make([]string, 0, len(ix.dups))
	for id := range ix.dups {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve looks up id and asserts the element's kind.
func Resolve[T edf.Element](ix *Index, id string) (T, error) {
	var zero T
	el, err := ix.ByID(id)
	if err != nil {
		return zero, err
	}
	t, ok := el.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %s, want %s", ErrKindMismatch, id, el.ElementType(), reflect.TypeFor[T]())
	}
	return t, nil
}
