package util

import "sort"

// KeySet is a set backed by a map with bool values, usable with any
// comparable element type. grammar.Grammar uses it to track non-terminal
// and all-symbol membership.
type KeySet[E comparable] map[E]bool

// NewKeySet returns an empty KeySet.
func NewKeySet[E comparable]() KeySet[E] {
	return KeySet[E]{}
}

// Has reports whether value is a member of s.
func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

// Add inserts value into s.
func (s KeySet[E]) Add(value E) {
	s[value] = true
}

// OrderedKeys returns the keys of m sorted alphabetically by their fmt
// representation. ictiobus's automaton.DFA relies on this for reproducible
// String() output; the table builder relies on the insertion-order
// variant, OrderedSet, for its state worklist, where discovery order (not
// alphabetical order) must be preserved.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
