// Package grammar models an immutable context-free grammar and the fixed
// point FIRST_k computation over it. It is the leaf component of the LR(k)
// core: everything else (automaton, lrtable, matcher, parse) is built on
// top of the Grammar and FirstSets types defined here.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lrk/internal/util"
	"github.com/dekarrin/lrk/lrkerr"
)

// Action is the opaque semantic action attached to a Rule. It receives a
// caller-supplied context and one value per right-hand symbol (in order)
// and returns the value to associate with the reduced non-terminal. The
// core never inspects ctx or the popped values; it only threads them
// through as opaque semantic actions.
type Action func(ctx any, popped []any) (any, error)

// Rule is a single production left -> right with its semantic action.
// Rules are immutable once constructed.
type Rule struct {
	Left   Symbol
	Right  []Symbol
	Action Action
}

// String renders the rule as "Left -> Right", using "ε" for an empty
// right-hand side.
func (r Rule) String() string {
	if len(r.Right) == 0 {
		return fmt.Sprintf("%s -> ε", r.Left)
	}
	parts := make([]string, len(r.Right))
	for i, s := range r.Right {
		parts[i] = string(s)
	}
	return fmt.Sprintf("%s -> %s", r.Left, strings.Join(parts, " "))
}

// Grammar is an ordered, immutable list of rules plus the derived indices
// used throughout construction: which symbols are non-terminals, the set
// of all referenced symbols, and a stable-order index from a non-terminal
// to its rules.
type Grammar struct {
	rules      []Rule
	byLeft     map[Symbol][]int
	nonTerms   util.KeySet[Symbol]
	allSymbols util.KeySet[Symbol]
}

// New builds a Grammar from an ordered list of rules. The first rule's
// Left is the grammar's root (start) symbol. Returns lrkerr.EmptyGrammar
// if rules is empty; construction fails only in that case.
func New(rules []Rule) (Grammar, error) {
	if len(rules) == 0 {
		return Grammar{}, lrkerr.EmptyGrammar()
	}

	g := Grammar{
		rules:      make([]Rule, len(rules)),
		byLeft:     map[Symbol][]int{},
		nonTerms:   util.NewKeySet[Symbol](),
		allSymbols: util.NewKeySet[Symbol](),
	}
	copy(g.rules, rules)

	for i, r := range g.rules {
		g.nonTerms.Add(r.Left)
		g.allSymbols.Add(r.Left)
		g.byLeft[r.Left] = append(g.byLeft[r.Left], i)
		for _, sym := range r.Right {
			g.allSymbols.Add(sym)
		}
	}

	return g, nil
}

// Rules returns the rules in their original insertion order. The returned
// slice is a copy; mutating it does not affect g.
func (g Grammar) Rules() []Rule {
	out := make([]Rule, len(g.rules))
	copy(out, g.rules)
	return out
}

// Rule returns the i'th rule (0-indexed, in insertion order).
func (g Grammar) Rule(i int) Rule {
	return g.rules[i]
}

// RuleCount returns the number of rules in the grammar.
func (g Grammar) RuleCount() int {
	return len(g.rules)
}

// RulesFor returns, in stable (insertion) order, the indices of every rule
// whose Left is nt.
func (g Grammar) RulesFor(nt Symbol) []int {
	idxs := g.byLeft[nt]
	out := make([]int, len(idxs))
	copy(out, idxs)
	return out
}

// IsTerminal reports whether sym is a terminal, i.e. it never appears as
// the left side of any rule. A symbol is non-terminal iff it appears as
// the left side of some rule; otherwise terminal.
func (g Grammar) IsTerminal(sym Symbol) bool {
	return !g.nonTerms.Has(sym)
}

// IsNonTerminal reports whether sym appears as the left side of some rule.
func (g Grammar) IsNonTerminal(sym Symbol) bool {
	return g.nonTerms.Has(sym)
}

// NonTerminals returns every non-terminal symbol, in first-appearance
// order.
func (g Grammar) NonTerminals() []Symbol {
	seen := map[Symbol]bool{}
	var out []Symbol
	for _, r := range g.rules {
		if !seen[r.Left] {
			seen[r.Left] = true
			out = append(out, r.Left)
		}
	}
	return out
}

// Symbols returns every symbol referenced anywhere in the grammar (as a
// rule's left side or anywhere in a right-hand side), in first-appearance
// order.
func (g Grammar) Symbols() []Symbol {
	seen := map[Symbol]bool{}
	var out []Symbol
	add := func(s Symbol) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, r := range g.rules {
		add(r.Left)
		for _, s := range r.Right {
			add(s)
		}
	}
	return out
}

// Terminals returns every terminal symbol referenced anywhere in the
// grammar, in first-appearance order.
func (g Grammar) Terminals() []Symbol {
	var out []Symbol
	for _, s := range g.Symbols() {
		if g.IsTerminal(s) {
			out = append(out, s)
		}
	}
	return out
}

// StartSymbol returns the left side of the grammar's first rule, which is
// the designated root non-terminal used by Augmented.
func (g Grammar) StartSymbol() Symbol {
	return g.rules[0].Left
}

// Augmented returns the augmented grammar G': the synthetic rule
// S' -> R prepended as rule 0, where R is g.StartSymbol() and S' is a
// fresh non-terminal distinct from any symbol g uses.
func (g Grammar) Augmented() Grammar {
	augRule := Rule{
		Left:  augmentedStartSymbol,
		Right: []Symbol{g.StartSymbol()},
		Action: func(_ any, popped []any) (any, error) {
			if len(popped) != 1 {
				return nil, fmt.Errorf("augmentation rule expects exactly one popped value, got %d", len(popped))
			}
			return popped[0], nil
		},
	}

	all := make([]Rule, 0, len(g.rules)+1)
	all = append(all, augRule)
	all = append(all, g.rules...)

	aug, err := New(all)
	if err != nil {
		// can't happen: all always has at least one rule.
		panic(err)
	}
	return aug
}

// AugmentedStart returns the synthetic root symbol introduced by
// Augmented. It is only meaningful on a Grammar returned by Augmented.
func AugmentedStart() Symbol {
	return augmentedStartSymbol
}

// Validate reports unreachable non-terminals: those that no derivation
// from the start symbol ever reaches. It does not check productivity; a
// non-terminal that can never derive a string of terminals only is not
// reported. This is a diagnostic pass only: an empty FIRST_k for an
// unproductive symbol is not treated as an error here, and Validate does
// not block construction.
func (g Grammar) Validate() error {
	if len(g.rules) == 0 {
		return lrkerr.EmptyGrammar()
	}

	reachable := map[Symbol]bool{g.StartSymbol(): true}
	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			if !reachable[r.Left] {
				continue
			}
			for _, s := range r.Right {
				if g.IsNonTerminal(s) && !reachable[s] {
					reachable[s] = true
					changed = true
				}
			}
		}
	}

	var unreachable []string
	for _, nt := range g.NonTerminals() {
		if !reachable[nt] {
			unreachable = append(unreachable, string(nt))
		}
	}

	if len(unreachable) > 0 {
		return fmt.Errorf("unreachable non-terminal(s): %s", strings.Join(unreachable, ", "))
	}
	return nil
}
