// Package matcher rewrites a built lrtable.Table's symbolic lookaheads
// and goto symbols into executable predicates over extracted token
// values, producing the action_match/goto_match structures the parse
// driver consults at run time.
package matcher

import (
	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/lrtable"
)

// Predicate reports whether an extracted token value is accepted in place
// of some terminal symbol.
type Predicate func(extracted any) bool

// Map associates terminal symbols with a user-supplied Predicate. Symbols
// absent from the map fall back to the equality-to-symbol predicate.
type Map map[grammar.Symbol]Predicate

// Equality returns the default predicate for sym: accepts extracted values
// equal (==) to string(sym).
func Equality(sym grammar.Symbol) Predicate {
	s := string(sym)
	return func(extracted any) bool {
		return extracted == s
	}
}

// ActionEntry is one row of a bound state's action_match: a predicate per
// lookahead position plus the action to take if every predicate in the
// vector accepts the corresponding extracted value.
type ActionEntry struct {
	Predicates []Predicate
	Action     lrtable.Action
	Lookahead  grammar.TermString
}

// GotoEntry is one row of a bound state's goto_match: a single predicate
// plus the state to transition to if it accepts.
type GotoEntry struct {
	Predicate Predicate
	Next      string
}

// State is a table state after matcher binding: the exact-symbol goto map
// (for symbols with no user matcher) plus the ordered action_match and
// goto_match lists.
type State struct {
	ActionMatch []ActionEntry
	Goto        map[string]string
	GotoMatch   []GotoEntry
}

// Table is a whole lrtable.Table after matcher binding, one Bound State
// per original state.
type Table struct {
	Source  *lrtable.Table
	States  map[string]*State
	Default Map
}

// Bind resolves every terminal symbol t occurring in any lookahead or goto
// position to userMatchers[t] if present, or Equality(t) otherwise, and
// packages the result as ordered match-lists. Order of action_match
// within a state matches t.ActionEntries' insertion order; order of
// goto_match matches t.GotoEntries' order. A symbol with both a user
// matcher and a plain equality relationship everywhere else still uses
// the user matcher in its action-match predicate vector: userMatchers
// always wins.
func Bind(t *lrtable.Table, userMatchers Map) *Table {
	bound := &Table{Source: t, States: map[string]*State{}, Default: userMatchers}

	predicateFor := func(sym grammar.Symbol) Predicate {
		if userMatchers != nil {
			if p, ok := userMatchers[sym]; ok {
				return p
			}
		}
		return Equality(sym)
	}

	for _, name := range t.DFA.States() {
		st := &State{Goto: map[string]string{}}

		for _, e := range t.ActionEntries(name) {
			preds := make([]Predicate, len(e.Lookahead))
			for i, sym := range e.Lookahead {
				preds[i] = predicateFor(sym)
			}
			st.ActionMatch = append(st.ActionMatch, ActionEntry{Predicates: preds, Action: e.Action, Lookahead: e.Lookahead})
		}

		for _, ge := range t.GotoEntries(name) {
			sym := grammar.Symbol(ge.Symbol)
			hasUserMatcher := userMatchers != nil
			if hasUserMatcher {
				if _, ok := userMatchers[sym]; ok {
					st.GotoMatch = append(st.GotoMatch, GotoEntry{Predicate: userMatchers[sym], Next: ge.Next})
					continue
				}
			}
			st.Goto[ge.Symbol] = ge.Next
		}

		bound.States[name] = st
	}

	return bound
}

// Action finds the first action_match entry in state whose predicate
// vector matches key exactly, returning the action and ok=true, or
// ok=false if none matches.
func (t *Table) Action(state string, key []any) (lrtable.Action, bool) {
	st, ok := t.States[state]
	if !ok {
		return lrtable.Action{}, false
	}
	for _, e := range st.ActionMatch {
		if matches(e.Predicates, key) {
			return e.Action, true
		}
	}
	return lrtable.Action{}, false
}

// Goto resolves the next state for state on the extracted key of a shifted
// or reduced-to symbol: an exact match in the state's Goto map wins; else
// the first matching GotoMatch predicate.
func (t *Table) Goto(state string, key any) (string, bool) {
	st, ok := t.States[state]
	if !ok {
		return "", false
	}
	if s, ok := key.(string); ok {
		if next, ok := st.Goto[s]; ok {
			return next, true
		}
	}
	for _, ge := range st.GotoMatch {
		if ge.Predicate(key) {
			return ge.Next, true
		}
	}
	return "", false
}

// Expected returns, for diagnostics, the first symbol of every
// action_match lookahead in state whose length equals length, in order.
// Used to name what the driver would have accepted instead of the
// offending key in an UnexpectedLookahead error.
func (t *Table) Expected(state string, length int) []string {
	st, ok := t.States[state]
	if !ok {
		return nil
	}
	var out []string
	for _, e := range st.ActionMatch {
		if len(e.Lookahead) == length && length > 0 {
			out = append(out, string(e.Lookahead[0]))
		}
	}
	return out
}

func matches(preds []Predicate, key []any) bool {
	if len(preds) != len(key) {
		return false
	}
	for i, p := range preds {
		if !p(key[i]) {
			return false
		}
	}
	return true
}
