package lrtable

import (
	"fmt"

	"github.com/dekarrin/lrk/grammar"
)

// ActionKind is the discriminator for a Table entry: shift, reduce, or
// accept. Shift carries no rule, so it gets its own ActionKind rather than
// a sentinel rule, which keeps Action comparable without a special-cased
// zero Rule.
type ActionKind int

const (
	Shift ActionKind = iota
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "unknown"
	}
}

// Action is one entry of a state's action table: either a shift (advance
// the lookahead buffer), a reduce by a specific rule, or accept.
type Action struct {
	Kind      ActionKind
	RuleIndex int
	Rule      grammar.Rule
}

// String renders the action the way ictiobus's LRAction.String does:
// "ACTION<shift>" / "ACTION<reduce A -> β>" / "ACTION<accept>".
func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return "ACTION<shift>"
	case Accept:
		return "ACTION<accept>"
	case Reduce:
		return fmt.Sprintf("ACTION<reduce %s>", a.Rule.String())
	default:
		return "ACTION<unknown>"
	}
}

// Equal reports whether two actions represent the same decision for
// conflict-detection purposes.
//
// Shift and Accept are always considered equal to each other: both are
// the "take one more token and decide" operation, the same way ictiobus's
// own accept handling folds the augmentation's reduce into the shift
// branch. At k=0 every lookahead truncates to the empty string, so a
// state's final augmentation item and its ordinary shift items
// legitimately share the same (state, lookahead) slot; without this,
// every left-recursive list grammar at k=0 would misreport a spurious
// shift/accept conflict at end of input. Reduce actions still only equal
// a Reduce by the identical rule; any other pairing (reduce vs.
// shift-like, or reduce by a different rule) is a genuine conflict.
func (a Action) Equal(o Action) bool {
	aShiftLike := a.Kind == Shift || a.Kind == Accept
	oShiftLike := o.Kind == Shift || o.Kind == Accept
	if aShiftLike && oShiftLike {
		return true
	}
	if a.Kind != o.Kind {
		return false
	}
	return a.RuleIndex == o.RuleIndex
}
