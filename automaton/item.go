// Package automaton builds the canonical LR(k) item sets for a grammar:
// dotted rules with a lookahead string, closure and goto over them, and the
// deduplicated state graph those produce. It generalizes ictiobus's
// grammar.LR0Item/LR1Item (which carry a single lookahead symbol, since
// ictiobus only ever builds LR(1)/LALR(1)/SLR(1) tables) to an item whose
// lookahead is itself a terminal string, which canonical LR(k) for k > 1
// requires.
package automaton

import (
	"fmt"
	"strings"

	"github.com/dekarrin/lrk/grammar"
)

// Item is a dotted rule (RuleIndex into the augmented grammar, Dot position
// within Right) plus a lookahead string of length <= k. Items are compared
// by value: rule identity, dot position, and lookahead.
type Item struct {
	RuleIndex int
	Left      grammar.Symbol
	Right     []grammar.Symbol
	Dot       int
	Lookahead grammar.TermString
}

// Final reports whether the dot has reached the end of the production.
func (it Item) Final() bool {
	return it.Dot == len(it.Right)
}

// NextSymbol returns the symbol immediately after the dot and true, or the
// zero Symbol and false if the item is Final.
func (it Item) NextSymbol() (grammar.Symbol, bool) {
	if it.Final() {
		return "", false
	}
	return it.Right[it.Dot], true
}

// Advanced returns a copy of it with the dot moved one position to the
// right. Panics if it is already Final.
func (it Item) Advanced() Item {
	if it.Final() {
		panic("cannot advance a final item")
	}
	adv := it
	adv.Dot++
	return adv
}

// Beta returns the symbols from the dot onward, i.e. starting with the
// symbol the dot currently precedes.
func (it Item) Beta() []grammar.Symbol {
	return it.Right[it.Dot:]
}

// Key returns a canonical string discriminator for the item, used as the
// membership key in item sets. Two items with equal (RuleIndex, Dot,
// Lookahead) always produce equal keys.
func (it Item) Key() string {
	return fmt.Sprintf("%d\x1f%d\x1f%s", it.RuleIndex, it.Dot, it.Lookahead.Key())
}

// String renders the item in the classic "A -> α.β, lookahead" form.
func (it Item) String() string {
	var sb strings.Builder
	sb.WriteString(string(it.Left))
	sb.WriteString(" -> ")
	for i, s := range it.Right {
		if i == it.Dot {
			sb.WriteRune('.')
		}
		sb.WriteString(string(s))
		sb.WriteRune(' ')
	}
	if it.Dot == len(it.Right) {
		sb.WriteRune('.')
	}
	sb.WriteString(", ")
	sb.WriteString(it.Lookahead.String())
	return sb.String()
}

// NextLookaheads computes FIRST_k(β' · ℓ) where β' is the production
// symbols after the *next* symbol (it.Right[it.Dot+1:]) and ℓ is the
// item's own lookahead. Used when expanding the closure over the
// non-terminal immediately after the dot.
func (it Item) NextLookaheads(first *grammar.FirstSets) []grammar.TermString {
	tail := it.Right[it.Dot+1:]
	return concatLookaheads(first, tail, it.Lookahead)
}

// Lookaheads computes FIRST_k(β · ℓ) where β is everything from the dot
// onward and ℓ is the item's own lookahead. Used when emitting shift
// entries for an item whose next symbol is a terminal.
func (it Item) Lookaheads(first *grammar.FirstSets) []grammar.TermString {
	return concatLookaheads(first, it.Beta(), it.Lookahead)
}

// concatLookaheads computes { truncate_k(h . tail) : h ∈ FIRST_k(w) }.
func concatLookaheads(first *grammar.FirstSets, w []grammar.Symbol, tail grammar.TermString) []grammar.TermString {
	k := first.K()
	heads := first.Of(w).Slice()
	out := make([]grammar.TermString, 0, len(heads))
	seen := map[string]bool{}
	for _, h := range heads {
		combined := h.Concat(tail).TruncateK(k)
		key := combined.Key()
		if !seen[key] {
			seen[key] = true
			out = append(out, combined)
		}
	}
	return out
}
