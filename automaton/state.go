package automaton

import (
	"sort"
	"strings"

	"github.com/dekarrin/lrk/grammar"
)

// ItemSet is a closed set of Items: a set, not a multiset, but one that
// remembers the order in which its members were discovered, for stable
// iteration. Two
// ItemSets with the same members (regardless of discovery order) are
// considered the same state by the table builder, via Key.
type ItemSet struct {
	items *orderedItems
}

// orderedItems is a small discovery-order set of Items keyed by Item.Key.
// It is the LR(k) specialization of util.OrderedSet[Item]; kept as its own
// type (rather than a generic alias) so ItemSet's methods read naturally.
type orderedItems struct {
	byKey map[string]int
	order []string
	items []Item
}

func newOrderedItems() *orderedItems {
	return &orderedItems{byKey: map[string]int{}}
}

func (o *orderedItems) add(it Item) bool {
	k := it.Key()
	if _, ok := o.byKey[k]; ok {
		return false
	}
	o.byKey[k] = len(o.order)
	o.order = append(o.order, k)
	o.items = append(o.items, it)
	return true
}

func (o *orderedItems) has(key string) bool {
	_, ok := o.byKey[key]
	return ok
}

// NewItemSet builds an ItemSet (not yet closed) from an initial slice of
// items, deduplicating by Item.Key while preserving first-seen order.
func NewItemSet(items ...Item) ItemSet {
	o := newOrderedItems()
	for _, it := range items {
		o.add(it)
	}
	return ItemSet{items: o}
}

// Items returns the set's members in discovery order.
func (s ItemSet) Items() []Item {
	if s.items == nil {
		return nil
	}
	out := make([]Item, len(s.items.items))
	copy(out, s.items.items)
	return out
}

// Len returns the number of items in the set.
func (s ItemSet) Len() int {
	if s.items == nil {
		return 0
	}
	return len(s.items.items)
}

// Key returns a canonical, order-independent discriminator for the item
// set: its members' keys, sorted, joined. Two ItemSets with equal members
// (as a set, regardless of discovery order) always produce equal Keys,
// which is what lets the table builder dedupe states by item-set equality.
func (s ItemSet) Key() string {
	if s.items == nil {
		return ""
	}
	keys := make([]string, len(s.items.order))
	copy(keys, s.items.order)
	sort.Strings(keys)
	return strings.Join(keys, "\x1e")
}

// String renders the item set one item per line.
func (s ItemSet) String() string {
	var sb strings.Builder
	items := s.Items()
	sort.Slice(items, func(i, j int) bool { return items[i].Key() < items[j].Key() })
	for i, it := range items {
		if i > 0 {
			sb.WriteRune('\n')
		}
		sb.WriteString(it.String())
	}
	return sb.String()
}

// Closure expands an initial item list into a closed item set: for every
// item with a non-terminal B immediately after the dot, for every rule
// B -> γ in the augmented grammar g, and for every lookahead in
// NextLookaheads, add (B -> •γ, lookahead) if not already present.
//
// Iteration proceeds by growing index over a discovery-ordered worklist so
// that newly-added items are themselves visited for further expansion,
// matching ictiobus's closeItems BFS-by-slicing-off-the-front idiom in
// lrparser.Grammar.closeItems, generalized here to avoid mutating a
// shrinking queue by instead growing index across a single ordered list.
func Closure(initial []Item, g grammar.Grammar, first *grammar.FirstSets) ItemSet {
	o := newOrderedItems()
	for _, it := range initial {
		o.add(it)
	}

	for i := 0; i < len(o.items); i++ {
		it := o.items[i]
		b, ok := it.NextSymbol()
		if !ok || g.IsTerminal(b) {
			continue
		}

		lookaheads := it.NextLookaheads(first)

		for _, ruleIdx := range g.RulesFor(b) {
			r := g.Rule(ruleIdx)
			for _, la := range lookaheads {
				newItem := Item{
					RuleIndex: ruleIdx,
					Left:      r.Left,
					Right:     r.Right,
					Dot:       0,
					Lookahead: la,
				}
				o.add(newItem)
			}
		}
	}

	return ItemSet{items: o}
}

// Goto collects the items of state whose next symbol is X, advances each
// dot by one, and closes the result. Returns a zero-length ItemSet (Len()
// == 0) if no item in state has X after the dot, meaning there is no
// transition on X.
func Goto(state ItemSet, x grammar.Symbol, g grammar.Grammar, first *grammar.FirstSets) ItemSet {
	var advanced []Item
	for _, it := range state.Items() {
		next, ok := it.NextSymbol()
		if ok && next == x {
			advanced = append(advanced, it.Advanced())
		}
	}
	if len(advanced) == 0 {
		return ItemSet{}
	}
	return Closure(advanced, g, first)
}
