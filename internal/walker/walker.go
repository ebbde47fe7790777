// Package walker flattens a ballot style's ordered content.
//
// Ordered content is a tree: headers hold further ordered content and
// contest references are the leaves. The walkers here visit it depth first,
// left to right, lazily, yielding one item per step.
package walker

import (
	"errors"
	"fmt"
	"iter"

	"github.com/jackzampolin/ballotmaker/internal/edf"
)

// ErrUnexpectedContent is yielded when ordered content holds something
// other than an OrderedContest or OrderedHeader.
var ErrUnexpectedContent = errors.New("unexpected ordered content")

// Contests yields every contest reference under content in document order.
// Headers are descended into but never yielded. Iteration ends after the
// first error.
func Contests(content []edf.Element) iter.Seq2[*edf.OrderedContest, error] {
	return func(yield func(*edf.OrderedContest, error) bool) {
		walkContests(content, yield)
	}
}

// ContestIDs is Contests reduced to the referenced contest ids.
func ContestIDs(content []edf.Element) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for oc, err := range Contests(content) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(oc.ContestID, nil) {
				return
			}
		}
	}
}

// Headers yields every header under content, each before its descendants.
// Contest references are skipped.
func Headers(content []edf.Element) iter.Seq2[*edf.OrderedHeader, error] {
	return func(yield func(*edf.OrderedHeader, error) bool) {
		walkHeaders(content, yield)
	}
}

func walkContests(content []edf.Element, yield func(*edf.OrderedContest, error) bool) bool {
	for _, item := range content {
		switch n := item.(type) {
		case *edf.OrderedContest:
			if !yield(n, nil) {
				return false
			}
		case *edf.OrderedHeader:
			if !walkContests(n.OrderedContent, yield) {
				return false
			}
		default:
			yield(nil, unexpected(item))
			return false
		}
	}
	return true
}

func walkHeaders(content []edf.Element, yield func(*edf.OrderedHeader, error) bool) bool {
	for _, item := range content {
		switch n := item.(type) {
		case *edf.OrderedContest:
		case *edf.OrderedHeader:
			if !yield(n, nil) {
				return false
			}
			if !walkHeaders(n.OrderedContent, yield) {
				return false
			}
		default:
			yield(nil, unexpected(item))
			return false
		}
	}
	return true
}

func unexpected(item edf.Element) error {
	if item == nil {
		return fmt.Errorf("%w: nil", ErrUnexpectedContent)
	}
	return fmt.Errorf("%w: %s", ErrUnexpectedContent, item.ElementType())
}
