package lrtable

import (
	"github.com/dekarrin/lrk/automaton"
	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/lrkerr"
)

// conflictError builds the lrkerr InvalidGrammar error for a state that
// has been assigned two different actions on the same lookahead. For k=0
// the message must begin with the literal prefix "LR(0) table conflict";
// lrkerr.LR0TableConflict produces exactly that prefix, so it is used
// whenever k is 0 regardless of which branch of Build detected the clash.
func conflictError(k int, state string, lookahead grammar.TermString, existing, incoming Action, triggeringItem automaton.Item) error {
	if k == 0 {
		return lrkerr.LR0TableConflict(state, existing, incoming, triggeringItem)
	}
	return lrkerr.TableConflict(k, state, lookahead.String(), existing, incoming, triggeringItem)
}

// emptyGrammarErr is a thin indirection so table.go need not import lrkerr
// directly just for this one call.
func emptyGrammarErr() error {
	return lrkerr.EmptyGrammar()
}
