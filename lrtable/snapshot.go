package lrtable

import (
	"github.com/dekarrin/lrk/automaton"
	"github.com/dekarrin/lrk/grammar"
)

// Snapshot is a serializable rendering of a built Table's shape: states,
// transitions, and per-state action rows. It deliberately omits anything
// that cannot survive a round trip through storage -- grammar.Rule.Action
// closures chief among them -- which is why FromSnapshot takes the live
// augmented grammar as a separate argument and looks rule actions back up
// by index rather than trying to deserialize them. The build cache keys
// snapshots by a digest of the grammar definition plus k.
type Snapshot struct {
	K         int
	Start     string
	Accepting string
	States    []string
	Transitions map[string][]SnapshotTransition
	Actions     map[string][]SnapshotAction
}

// SnapshotTransition is one (symbol, next-state) edge.
type SnapshotTransition struct {
	Symbol string
	Next   string
}

// SnapshotAction is one action-row entry: the lookahead symbols, the
// action kind, (for Reduce) the rule index into the augmented grammar
// that produced it, and (for Shift) the symbol the shift consumes, which
// Table.String uses to name the shift's target state.
type SnapshotAction struct {
	Lookahead   []string
	Kind        ActionKind
	RuleIndex   int
	ShiftSymbol string
}

// Snapshot renders t into its serializable form.
func (t *Table) Snapshot() Snapshot {
	snap := Snapshot{
		K:           t.K,
		Start:       t.DFA.Start,
		Accepting:   t.Accepting,
		States:      t.DFA.States(),
		Transitions: map[string][]SnapshotTransition{},
		Actions:     map[string][]SnapshotAction{},
	}

	for _, s := range snap.States {
		for _, tr := range t.DFA.Transitions(s) {
			snap.Transitions[s] = append(snap.Transitions[s], SnapshotTransition{Symbol: tr.Symbol, Next: tr.Next})
		}
		for _, e := range t.ActionEntries(s) {
			la := make([]string, len(e.Lookahead))
			for i, sym := range e.Lookahead {
				la[i] = string(sym)
			}
			ruleIdx := -1
			if e.Action.Kind == Reduce {
				ruleIdx = e.Action.RuleIndex
			}
			shiftSym := ""
			if e.Action.Kind == Shift {
				sym, _ := t.actions[s].byKey[e.Lookahead.Key()].item.NextSymbol()
				shiftSym = string(sym)
			}
			snap.Actions[s] = append(snap.Actions[s], SnapshotAction{Lookahead: la, Kind: e.Action.Kind, RuleIndex: ruleIdx, ShiftSymbol: shiftSym})
		}
	}

	return snap
}

// FromSnapshot rebuilds a Table from a previously-captured Snapshot and
// the live augmented grammar it was built from. No closure or FIRST_k
// recomputation occurs: states and transitions are taken verbatim from
// the snapshot, and Reduce actions recover their grammar.Rule (with its
// live Action closure) by indexing into aug. The caller is responsible
// for ensuring aug is the augmented form of the same grammar the
// snapshot was taken from (cache.BuildOrLoad establishes this by keying
// lookups on a digest of the grammar definition).
func FromSnapshot(aug grammar.Grammar, snap Snapshot) *Table {
	dfa := automaton.NewDFA[automaton.ItemSet]()
	for _, s := range snap.States {
		dfa.AddState(s, automaton.ItemSet{}, s == snap.Accepting)
	}
	dfa.Start = snap.Start
	for from, edges := range snap.Transitions {
		for _, e := range edges {
			dfa.AddTransition(from, e.Symbol, e.Next)
		}
	}

	t := &Table{
		Grammar:   aug,
		K:         snap.K,
		DFA:       dfa,
		Accepting: snap.Accepting,
		actions:   map[string]*actionRow{},
	}

	for state, entries := range snap.Actions {
		row := newActionRow()
		for _, e := range entries {
			la := make(grammar.TermString, len(e.Lookahead))
			for i, s := range e.Lookahead {
				la[i] = grammar.Symbol(s)
			}
			var action Action
			var item automaton.Item
			switch e.Kind {
			case Accept:
				action = Action{Kind: Accept}
			case Reduce:
				action = Action{Kind: Reduce, RuleIndex: e.RuleIndex, Rule: aug.Rule(e.RuleIndex)}
			case Shift:
				action = Action{Kind: Shift}
				item = automaton.Item{Right: []grammar.Symbol{grammar.Symbol(e.ShiftSymbol)}}
			}
			row.set(la.Key(), actionEntry{lookahead: la, action: action, item: item})
		}
		t.actions[state] = row
	}

	return t
}
