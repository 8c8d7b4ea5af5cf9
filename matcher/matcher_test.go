package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/lrtable"
)

func noopAction(_ any, popped []any) (any, error) { return popped, nil }

func exprGrammar(t *testing.T) grammar.Grammar {
	t.Helper()
	g, err := grammar.New([]grammar.Rule{
		{Left: "E", Right: []grammar.Symbol{"E", "+", "T"}, Action: noopAction},
		{Left: "E", Right: []grammar.Symbol{"T"}, Action: noopAction},
		{Left: "T", Right: []grammar.Symbol{"id"}, Action: noopAction},
	})
	assert.NoError(t, err)
	return g
}

// Test_Bind_defaultsToEquality covers the no-user-matcher case: every
// terminal falls back to Equality, and action_match/goto_match are built
// from the source table's entries verbatim.
func Test_Bind_defaultsToEquality(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar(t)
	table, err := lrtable.Build(g, 1, lrtable.Options{})
	assert.NoError(err)

	bound := Bind(table, nil)
	assert.Same(table, bound.Source)

	start := table.DFA.Start
	st, ok := bound.States[start]
	assert.True(ok)
	assert.NotEmpty(st.ActionMatch)

	// no user matchers means every goto should land in the exact map, none
	// in goto_match.
	assert.Empty(st.GotoMatch)
}

// Test_Bind_userMatcherPrecedence covers matcher precedence: a symbol
// with both a user matcher and an otherwise equality-eligible use must
// use the user matcher in its action_match predicate vector, not plain
// equality.
func Test_Bind_userMatcherPrecedence(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar(t)
	table, err := lrtable.Build(g, 1, lrtable.Options{})
	assert.NoError(err)

	alwaysTrue := func(_ any) bool { return true }
	bound := Bind(table, Map{"id": alwaysTrue})

	found := false
	for _, name := range table.DFA.States() {
		st := bound.States[name]
		for _, e := range st.ActionMatch {
			for i, sym := range e.Lookahead {
				if sym == "id" {
					found = true
					// the predicate at this position must accept a value
					// that plain equality to "id" would reject, proving it
					// is the user predicate and not Equality("id").
					assert.True(e.Predicates[i]("anything at all"))
				}
			}
		}
	}
	assert.True(found, "expected at least one action_match entry with lookahead symbol \"id\"")
}

// Test_Bind_gotoMatchUsesUserPredicate covers goto_match construction: a
// non-terminal or terminal goto target with a user matcher is routed
// through GotoMatch rather than the exact Goto map.
func Test_Bind_gotoMatchUsesUserPredicate(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar(t)
	table, err := lrtable.Build(g, 1, lrtable.Options{})
	assert.NoError(err)

	alwaysTrue := func(_ any) bool { return true }
	bound := Bind(table, Map{"id": alwaysTrue})

	sawGotoMatch := false
	for _, name := range table.DFA.States() {
		st := bound.States[name]
		for _, ge := range st.GotoMatch {
			sawGotoMatch = true
			assert.True(ge.Predicate("anything"))
		}
		_, inExact := st.Goto["id"]
		assert.False(inExact, "symbol with a user matcher must not also appear in the exact Goto map")
	}
	assert.True(sawGotoMatch)
}

// Test_Table_Action_firstMatchWins covers driver-facing lookup: Action
// returns the first action_match entry whose predicate vector matches, and
// ok=false when nothing matches.
func Test_Table_Action_firstMatchWins(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar(t)
	table, err := lrtable.Build(g, 1, lrtable.Options{})
	assert.NoError(err)

	bound := Bind(table, nil)
	start := table.DFA.Start

	_, ok := bound.Action(start, []any{"id"})
	assert.True(ok)

	_, ok = bound.Action(start, []any{"nonexistent-terminal"})
	assert.False(ok)
}

// Test_Table_Expected_reportsSameLengthLookaheads covers the diagnostic
// surface used by UnexpectedLookahead errors.
func Test_Table_Expected_reportsSameLengthLookaheads(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar(t)
	table, err := lrtable.Build(g, 1, lrtable.Options{})
	assert.NoError(err)

	bound := Bind(table, nil)
	start := table.DFA.Start

	expected := bound.Expected(start, 1)
	assert.Contains(expected, "id")
}
