package grammar

import "strings"

// TermString is a truncated terminal string: an ordered sequence of
// terminal symbols of length <= k. The empty sequence (len 0) is the
// identity element, written ε below. TermStrings are compared and
// keyed by their Key() so they can live in maps/sets.
type TermString []Symbol

// Key returns a canonical, collision-free representation of ts suitable
// for use as a map key or item-set discriminator. Symbol spellings may not
// contain the unit separator byte used here, which is true of every
// symbol this package itself manufactures (augmentedStartSymbol uses a
// different control byte) and is the caller's responsibility for symbols
// it supplies.
func (ts TermString) Key() string {
	if len(ts) == 0 {
		return ""
	}
	parts := make([]string, len(ts))
	for i, s := range ts {
		parts[i] = string(s)
	}
	return strings.Join(parts, "\x1f")
}

func (ts TermString) String() string {
	if len(ts) == 0 {
		return "ε"
	}
	parts := make([]string, len(ts))
	for i, s := range ts {
		parts[i] = string(s)
	}
	return strings.Join(parts, " ")
}

// Concat returns a new TermString that is ts followed by other.
func (ts TermString) Concat(other TermString) TermString {
	out := make(TermString, 0, len(ts)+len(other))
	out = append(out, ts...)
	out = append(out, other...)
	return out
}

// TruncateK keeps the first min(k, len(ts)) symbols of ts.
func (ts TermString) TruncateK(k int) TermString {
	if len(ts) <= k {
		return ts
	}
	out := make(TermString, k)
	copy(out, ts[:k])
	return out
}

// TermStringSet is a set of TermString values, keyed by TermString.Key.
type TermStringSet struct {
	byKey map[string]TermString
}

// NewTermStringSet returns an empty set.
func NewTermStringSet() *TermStringSet {
	return &TermStringSet{byKey: map[string]TermString{}}
}

// Add inserts ts if not already present. Returns true if the set grew.
func (s *TermStringSet) Add(ts TermString) bool {
	k := ts.Key()
	if _, ok := s.byKey[k]; ok {
		return false
	}
	s.byKey[k] = ts
	return true
}

// Len returns the number of distinct term strings in the set.
func (s *TermStringSet) Len() int {
	return len(s.byKey)
}

// Slice returns the set's contents. Order is not significant but is made
// deterministic (lexicographic by Key) for reproducible diagnostics.
func (s *TermStringSet) Slice() []TermString {
	keys := make([]string, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	// insertion order doesn't matter for FIRST_k results (it's a set),
	// but a stable sort keeps String() and test expectations reproducible.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	out := make([]TermString, len(keys))
	for i, k := range keys {
		out[i] = s.byKey[k]
	}
	return out
}

// FirstSets computes and caches FIRST_k for a single augmented grammar and
// lookahead bound k. One FirstSets is built per Grammar.Augmented() value
// used by a table build; it is not meant to be shared across grammars.
//
// The implementation is a classic fixed-point over a table M: non-terminal
// -> set of terminal strings of length <= k. Initialize every set to
// empty; repeatedly, for each rule A -> α, update M[A] := M[A] ∪
// FIRST_k(α) using the current M for recursive calls on non-terminals;
// stop when no set grows. Left recursion converges because
// every set is bounded in size by the number of terminal strings of length
// <= k, which is finite.
type FirstSets struct {
	g     Grammar
	k     int
	table map[Symbol]*TermStringSet
	// memo caches FIRST_k(w) for arbitrary symbol strings w, keyed by the
	// joined symbol spelling. Cleared implicitly any time the table is
	// recomputed (i.e. never -- the table is computed once, up front, in
	// NewFirstSets).
	memo map[string]*TermStringSet
}

// NewFirstSets computes FIRST_k for every non-terminal of g (which must
// already be the augmented grammar; the table builder always calls this
// after Grammar.Augmented) and returns an engine that answers FIRST_k(w)
// for arbitrary symbol strings w.
func NewFirstSets(g Grammar, k int) *FirstSets {
	fs := &FirstSets{
		g:     g,
		k:     k,
		table: map[Symbol]*TermStringSet{},
		memo:  map[string]*TermStringSet{},
	}

	for _, nt := range g.NonTerminals() {
		fs.table[nt] = NewTermStringSet()
	}

	changed := true
	for changed {
		changed = false
		for _, r := range g.rules {
			grown := fs.firstOfSequence(r.Right, nil)
			dst := fs.table[r.Left]
			for _, ts := range grown.Slice() {
				if dst.Add(ts) {
					changed = true
				}
			}
		}
	}

	return fs
}

// K returns the lookahead bound this engine was built for.
func (fs *FirstSets) K() int {
	return fs.k
}

// Of computes FIRST_k(w) for an arbitrary string of grammar symbols w. The
// empty string yields {ε}.
func (fs *FirstSets) Of(w []Symbol) *TermStringSet {
	key := symbolsKey(w)
	if cached, ok := fs.memo[key]; ok {
		return cached
	}
	result := fs.firstOfSequence(w, nil)
	fs.memo[key] = result
	return result
}

// firstOfSequence computes FIRST_k(w) using the (possibly still-converging)
// current contents of fs.table for any non-terminal encountered in w. This
// is the function repeatedly re-run during the fixed-point loop in
// NewFirstSets, and also the one backing the public Of method once the
// table has converged.
func (fs *FirstSets) firstOfSequence(w []Symbol, _ []Symbol) *TermStringSet {
	if len(w) == 0 {
		empty := NewTermStringSet()
		empty.Add(nil)
		return empty
	}

	head, rest := w[0], w[1:]

	var headSets *TermStringSet
	if fs.g.IsTerminal(head) {
		headSets = NewTermStringSet()
		headSets.Add(TermString{head})
	} else {
		headSets = fs.table[head]
		if headSets == nil {
			headSets = NewTermStringSet()
		}
	}

	restSets := fs.firstOfSequence(rest, nil)

	out := NewTermStringSet()
	for _, h := range headSets.Slice() {
		if len(h) >= fs.k {
			// already at the bound: concatenating anything from FIRST_k(rest)
			// can't change the truncated result.
			out.Add(h.TruncateK(fs.k))
			continue
		}
		for _, r := range restSets.Slice() {
			out.Add(h.Concat(r).TruncateK(fs.k))
		}
	}
	// If headSets is still empty (a non-terminal whose FIRST_k hasn't
	// gained any members yet, mid fixed-point), out stays empty here; it
	// grows on a later iteration as fs.table fills in. An empty restSets
	// only drops heads shorter than k: heads already at the bound are
	// added above whatever restSets holds.
	return out
}

func symbolsKey(w []Symbol) string {
	parts := make([]string, len(w))
	for i, s := range w {
		parts[i] = string(s)
	}
	return strings.Join(parts, "\x1f")
}
