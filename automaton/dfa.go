package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lrk/internal/util"
)

// transition is a single labeled edge to another state. Unlike ictiobus's
// FATransition, it carries no text-serialization helpers: this graph is
// always built programmatically by the table builder, never parsed back in
// from a string form, so that machinery (mustParseFATransition and friends
// in ictiobus) has no role here.
type transition struct {
	symbol string
	next   string
}

// dfaState is one node of the graph: a name, an arbitrary payload value,
// and its outgoing transitions.
type dfaState[E any] struct {
	name        string
	value       E
	transitions map[string]transition
	accepting   bool
	ordering    uint64
}

// DFA is a deterministic, named-state graph generic over a per-state
// payload type E. The LR(k) table builder instantiates DFA[ItemSet] to
// hold the canonical collection: one state per closed item set, named by
// a canonical serialization of that set, exactly as ictiobus's
// canonicalLR1Table keys its DFA states off State.String().
type DFA[E any] struct {
	Start  string
	states map[string]dfaState[E]
	order  uint64
}

// NewDFA returns an empty DFA.
func NewDFA[E any]() *DFA[E] {
	return &DFA[E]{states: map[string]dfaState[E]{}}
}

// AddState registers a new named state with the given payload. A no-op if
// the state already exists.
func (dfa *DFA[E]) AddState(name string, value E, accepting bool) {
	if _, ok := dfa.states[name]; ok {
		return
	}
	dfa.states[name] = dfaState[E]{
		name:        name,
		value:       value,
		transitions: map[string]transition{},
		accepting:   accepting,
		ordering:    dfa.order,
	}
	dfa.order++
}

// SetAccepting marks an existing state as accepting or not.
func (dfa *DFA[E]) SetAccepting(name string, accepting bool) {
	s, ok := dfa.states[name]
	if !ok {
		panic(fmt.Sprintf("setting accepting flag on non-existing state %q", name))
	}
	s.accepting = accepting
	dfa.states[name] = s
}

// AddTransition adds a labeled edge from -> to. Both states must already
// exist.
func (dfa *DFA[E]) AddTransition(from, symbol, to string) {
	s, ok := dfa.states[from]
	if !ok {
		panic(fmt.Sprintf("add transition from non-existent state %q", from))
	}
	if _, ok := dfa.states[to]; !ok {
		panic(fmt.Sprintf("add transition to non-existent state %q", to))
	}
	s.transitions[symbol] = transition{symbol: symbol, next: to}
	dfa.states[from] = s
}

// Next returns the state reached from fromState on symbol, or "" if there
// is no such state or transition.
func (dfa *DFA[E]) Next(fromState, symbol string) string {
	s, ok := dfa.states[fromState]
	if !ok {
		return ""
	}
	t, ok := s.transitions[symbol]
	if !ok {
		return ""
	}
	return t.next
}

// Value returns the payload stored at state.
func (dfa *DFA[E]) Value(state string) E {
	s, ok := dfa.states[state]
	if !ok {
		panic(fmt.Sprintf("getting value of non-existing state %q", state))
	}
	return s.value
}

// IsAccepting reports whether state is accepting. Returns false for a
// state that does not exist.
func (dfa *DFA[E]) IsAccepting(state string) bool {
	s, ok := dfa.states[state]
	return ok && s.accepting
}

// Has reports whether the named state exists.
func (dfa *DFA[E]) Has(state string) bool {
	_, ok := dfa.states[state]
	return ok
}

// States returns every state name in discovery (insertion) order, matching
// the order states were added to the DFA during construction.
func (dfa *DFA[E]) States() []string {
	names := make([]string, len(dfa.states))
	for name, s := range dfa.states {
		names[s.ordering] = name
	}
	return names
}

// Transitions returns the (symbol, next-state) pairs leaving state, in a
// stable (alphabetical by symbol) order.
func (dfa *DFA[E]) Transitions(state string) []struct {
	Symbol string
	Next   string
} {
	s, ok := dfa.states[state]
	if !ok {
		return nil
	}
	syms := util.OrderedKeys(s.transitions)
	out := make([]struct {
		Symbol string
		Next   string
	}, len(syms))
	for i, sym := range syms {
		out[i] = struct {
			Symbol string
			Next   string
		}{Symbol: sym, Next: s.transitions[sym].next}
	}
	return out
}

// String renders the DFA's states and transitions. Two DFAs with the same
// String() output have the same shape (same state names, same transitions,
// same accepting flags).
func (dfa *DFA[E]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<START: %q, STATES:", dfa.Start)
	names := util.OrderedKeys(dfa.states)
	for i, name := range names {
		s := dfa.states[name]
		fmt.Fprintf(&sb, "\n\t%s [", name)
		for j, sym := range util.OrderedKeys(s.transitions) {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "=(%s)=> %s", sym, s.transitions[sym].next)
		}
		sb.WriteRune(']')
		if s.accepting {
			sb.WriteString(" (accepting)")
		}
		if i+1 < len(names) {
			sb.WriteRune(',')
		}
	}
	sb.WriteString("\n>")
	return sb.String()
}
