// Copyright 2026 The Pipeline Library Authors
// SPDX-License-Identifier: Apache-2.0

package label

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by Parse when the input yields no labels. An
// empty requirement is a caller configuration error: an affinity guard
// with nothing to require would silently run anywhere.
var ErrEmpty = errors.New("label: empty label set")

// Set is an ordered sequence of capability labels as parsed from a
// comma-separated requirement string. Order is preserved so that the
// conjunction expression reproduces the caller's input; duplicates are
// not collapsed.
type Set []string

// Parse splits a comma-separated requirement string into a Set.
// Surrounding whitespace on each label is trimmed and empty fragments
// (from leading, trailing, or doubled commas) are dropped. Returns
// ErrEmpty if nothing remains.
func Parse(input string) (Set, error) {
	var set Set
	for _, fragment := range strings.Split(input, ",") {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}
		set = append(set, trimmed)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w (input %q)", ErrEmpty, input)
	}
	return set, nil
}

// Expression joins the set into a conjunction over all labels, in
// input order. This is the expression handed to a worker scheduler:
// every label must be satisfied by the allocated worker.
func (s Set) Expression() string {
	return strings.Join(s, "&&")
}

// SatisfiedBy reports whether every label in the set is present in
// have. Labels are checked in input order and the first miss
// short-circuits. A nil map satisfies nothing (a non-empty Set is
// never satisfied by it).
func (s Set) SatisfiedBy(have map[string]bool) bool {
	for _, l := range s {
		if !have[l] {
			return false
		}
	}
	return true
}
