// Package lrtable builds the canonical LR(k) parse table for a grammar:
// the augmented grammar, the FIRST_k engine over it, the canonical
// collection of item sets (via automaton.Closure/automaton.Goto), and the
// action/goto tables filled from that collection with conflict detection.
package lrtable

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/lrk/automaton"
	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/internal/util"
)

// actionEntry pairs a lookahead with the action assigned to it and the
// item that produced the assignment (kept for conflict diagnostics).
type actionEntry struct {
	lookahead grammar.TermString
	action    Action
	item      automaton.Item
}

// actionRow is a state's action table: an insertion-ordered list of
// lookahead -> action assignments. Order matters downstream: matcher.Bind
// preserves it verbatim when building action_match, since the order is
// the iteration order of the original action map.
type actionRow struct {
	order []string
	byKey map[string]actionEntry
}

func newActionRow() *actionRow {
	return &actionRow{byKey: map[string]actionEntry{}}
}

func (r *actionRow) get(key string) (actionEntry, bool) {
	e, ok := r.byKey[key]
	return e, ok
}

func (r *actionRow) set(key string, e actionEntry) {
	if _, ok := r.byKey[key]; !ok {
		r.order = append(r.order, key)
	}
	r.byKey[key] = e
}

// Table is the built LR(k) parse table: the augmented grammar, the
// lookahead bound, the canonical collection (as a DFA of item sets), and
// the per-state action rows. The goto table is simply the DFA's own
// transition function -- a map from symbol to state name -- since goto
// and the DFA's transitions are the same thing by construction.
type Table struct {
	Grammar   grammar.Grammar // augmented
	K         int
	DFA       *automaton.DFA[automaton.ItemSet]
	Accepting string

	actions map[string]*actionRow
}

// Options configures a Build call.
type Options struct {
	// KeepStatesOnError, when true, causes a conflict error to carry the
	// partial DFA built so far, so tooling can render the conflict graph.
	KeepStatesOnError bool
}

// BuildError wraps a construction failure, optionally carrying the
// partial canonical collection built before the failure was detected.
type BuildError struct {
	Cause   error
	Partial *automaton.DFA[automaton.ItemSet]
}

func (e *BuildError) Error() string { return e.Cause.Error() }
func (e *BuildError) Unwrap() error { return e.Cause }

// Action returns the action assigned to (state, lookahead), if any.
func (t *Table) Action(state string, lookahead grammar.TermString) (Action, bool) {
	row, ok := t.actions[state]
	if !ok {
		return Action{}, false
	}
	e, ok := row.get(lookahead.Key())
	return e.action, ok
}

// ActionEntries returns the (lookahead, action) pairs for state, in the
// order they were assigned during construction.
func (t *Table) ActionEntries(state string) []struct {
	Lookahead grammar.TermString
	Action    Action
} {
	row, ok := t.actions[state]
	if !ok {
		return nil
	}
	out := make([]struct {
		Lookahead grammar.TermString
		Action    Action
	}, len(row.order))
	for i, k := range row.order {
		e := row.byKey[k]
		out[i] = struct {
			Lookahead grammar.TermString
			Action    Action
		}{Lookahead: e.lookahead, Action: e.action}
	}
	return out
}

// Goto returns the state reached from state on symbol, if any. This reads
// straight through to the DFA, since goto on any symbol (terminal or
// non-terminal) is exactly what automaton.Goto computed during
// construction.
func (t *Table) Goto(state string, symbol grammar.Symbol) (string, bool) {
	next := t.DFA.Next(state, string(symbol))
	if next == "" {
		return "", false
	}
	return next, true
}

// GotoEntries returns every (symbol, next-state) transition out of state,
// terminal and non-terminal alike, in a stable (alphabetical by symbol)
// order. matcher.Bind consumes this to build goto_match.
func (t *Table) GotoEntries(state string) []struct {
	Symbol string
	Next   string
} {
	return t.DFA.Transitions(state)
}

// Build constructs the canonical LR(k) table for g. It augments g,
// computes FIRST_k over the augmented grammar, builds the canonical
// collection of item sets via a worklist over automaton.Goto, then fills
// the action tables from each state's items, aborting with a *BuildError
// wrapping an lrkerr InvalidGrammar error on the first conflict.
func Build(g grammar.Grammar, k int, opts Options) (*Table, error) {
	if k < 0 {
		return nil, fmt.Errorf("lookahead bound k must be non-negative, got %d", k)
	}
	if g.RuleCount() == 0 {
		return nil, &BuildError{Cause: emptyGrammarErr()}
	}

	aug := g.Augmented()
	first := grammar.NewFirstSets(aug, k)

	startRule := aug.Rule(0)
	startItem := automaton.Item{
		RuleIndex: 0,
		Left:      startRule.Left,
		Right:     startRule.Right,
		Dot:       0,
		Lookahead: grammar.TermString{},
	}
	startSet := automaton.Closure([]automaton.Item{startItem}, aug, first)

	dfa := automaton.NewDFA[automaton.ItemSet]()
	seen := util.NewOrderedSet[automaton.ItemSet]()
	seen.Add(startSet.Key(), startSet)
	dfa.AddState(startSet.Key(), startSet, false)
	dfa.Start = startSet.Key()

	symbols := aug.Symbols()
	for i := 0; i < seen.Len(); i++ {
		name, set := seen.At(i)
		for _, x := range symbols {
			next := automaton.Goto(set, x, aug, first)
			if next.Len() == 0 {
				continue
			}
			nextKey := next.Key()
			if !seen.Has(nextKey) {
				seen.Add(nextKey, next)
				dfa.AddState(nextKey, next, false)
			}
			dfa.AddTransition(name, string(x), nextKey)
		}
	}

	t := &Table{Grammar: aug, K: k, DFA: dfa, actions: map[string]*actionRow{}}

	augStart := grammar.AugmentedStart()

	for _, name := range seen.Keys() {
		set, _ := seen.Get(name)
		row := newActionRow()

		for _, it := range set.Items() {
			if it.Final() {
				var candidate Action
				if it.Left == augStart {
					candidate = Action{Kind: Accept}
				} else {
					candidate = Action{Kind: Reduce, RuleIndex: it.RuleIndex, Rule: aug.Rule(it.RuleIndex)}
				}
				if err := assign(row, it.Lookahead, candidate, it, name, k, opts, dfa); err != nil {
					return nil, err
				}
				if it.Left == augStart && len(it.Lookahead) == 0 {
					t.Accepting = name
					dfa.SetAccepting(name, true)
				}
				continue
			}

			next, _ := it.NextSymbol()
			if !aug.IsTerminal(next) {
				// non-terminal after the dot: handled by goto at shift time,
				// no action entry here.
				continue
			}
			for _, la := range it.Lookaheads(first) {
				if err := assign(row, la, Action{Kind: Shift}, it, name, k, opts, dfa); err != nil {
					return nil, err
				}
			}
		}

		t.actions[name] = row
	}

	if t.Accepting == "" {
		panic("lrtable: internal error: no accepting state found after table construction")
	}

	return t, nil
}

// assign records candidate as the action for lookahead in row, or returns
// a *BuildError if an existing, differing action is already assigned.
func assign(row *actionRow, lookahead grammar.TermString, candidate Action, item automaton.Item, state string, k int, opts Options, partial *automaton.DFA[automaton.ItemSet]) error {
	key := lookahead.Key()
	if existing, ok := row.get(key); ok {
		if !existing.action.Equal(candidate) {
			cause := conflictError(k, state, lookahead, existing.action, candidate, item)
			be := &BuildError{Cause: cause}
			if opts.KeepStatesOnError {
				be.Partial = partial
			}
			return be
		}
		return nil
	}
	row.set(key, actionEntry{lookahead: lookahead, action: candidate, item: item})
	return nil
}

// String renders the table as a state x lookahead/goto grid, in the same
// shape as ictiobus's canonicalLR1Table.String(): one row per state, one
// column per lookahead seen anywhere in the table followed by one column
// per non-terminal's goto entry.
func (t *Table) String() string {
	states := t.DFA.States()

	lookaheadOrder := []string{}
	lookaheadSeen := map[string]bool{}
	for _, s := range states {
		for _, k := range t.actions[s].order {
			if !lookaheadSeen[k] {
				lookaheadSeen[k] = true
				lookaheadOrder = append(lookaheadOrder, k)
			}
		}
	}

	nonTerms := t.Grammar.NonTerminals()

	headers := []string{"STATE", "|"}
	for _, la := range lookaheadOrder {
		headers = append(headers, fmt.Sprintf("A:%s", la))
	}
	headers = append(headers, "|")
	for _, nt := range nonTerms {
		headers = append(headers, fmt.Sprintf("G:%s", nt))
	}

	data := [][]string{headers}

	for _, s := range states {
		row := []string{s, "|"}
		actionsByKey := t.actions[s].byKey
		for _, la := range lookaheadOrder {
			cell := ""
			if e, ok := actionsByKey[la]; ok {
				switch e.action.Kind {
				case Accept:
					cell = "acc"
				case Reduce:
					cell = fmt.Sprintf("r%d", e.action.RuleIndex)
				case Shift:
					shiftSym, _ := e.item.NextSymbol()
					cell = fmt.Sprintf("s%s", t.DFA.Next(s, string(shiftSym)))
				}
			}
			row = append(row, cell)
		}
		row = append(row, "|")
		for _, nt := range nonTerms {
			cell := ""
			if next, ok := t.Goto(s, nt); ok {
				cell = next
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
