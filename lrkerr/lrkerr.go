// Package lrkerr holds the structured error types surfaced at the boundary
// of the LR(k) core: one for construction failures and one for parse
// failures. Both carry the original grammar symbols/tokens rather than any
// resolved predicate, so that messages stay human-readable regardless of
// how a matcher was bound (see matcher.Bind).
package lrkerr

import (
	"errors"
	"fmt"
)

// invalidGrammarError is returned when a grammar cannot be built into an
// LR(k) table: either the grammar has no rules, or the canonical collection
// has a shift/reduce or reduce/reduce conflict.
type invalidGrammarError struct {
	msg   string
	state string
	k     int
}

func (e *invalidGrammarError) Error() string {
	return e.msg
}

// State returns the name of the offending state, if the error was raised
// during table construction rather than at grammar-validation time.
func (e *invalidGrammarError) State() string {
	return e.state
}

// K returns the lookahead bound in effect when construction failed.
func (e *invalidGrammarError) K() int {
	return e.k
}

// EmptyGrammar returns an InvalidGrammar error for a grammar with no rules.
func EmptyGrammar() error {
	return &invalidGrammarError{msg: "grammar has no rules; cannot identify a root symbol"}
}

// TableConflict returns an InvalidGrammar error naming the lookahead bound,
// the offending state, the two conflicting actions, and the item that
// produced the second of them.
func TableConflict(k int, state, lookahead string, existing, incoming, triggeringItem fmt.Stringer) error {
	msg := fmt.Sprintf(
		"LR(%d) table conflict in state %s on lookahead %q: %s vs %s (from item %s)",
		k, state, lookahead, existing.String(), incoming.String(), triggeringItem.String(),
	)
	return &invalidGrammarError{msg: msg, state: state, k: k}
}

// LR0TableConflict is TableConflict specialized for k=0, where callers
// distinguishing LR(0) conflicts rely on the message beginning with the
// literal prefix "LR(0) table conflict".
func LR0TableConflict(state string, existing, incoming, triggeringItem fmt.Stringer) error {
	msg := fmt.Sprintf(
		"LR(0) table conflict in state %s: %s vs %s (from item %s)",
		state, existing.String(), incoming.String(), triggeringItem.String(),
	)
	return &invalidGrammarError{msg: msg, state: state, k: 0}
}

// IsInvalidGrammar reports whether err is (or wraps) an InvalidGrammar
// error raised by this package.
func IsInvalidGrammar(err error) bool {
	var e *invalidGrammarError
	return errors.As(err, &e)
}

// parseError is returned by the parse driver on an unexpected lookahead or
// premature end of input.
type parseError struct {
	msg     string
	key     []string
	prevEOF bool
}

func (e *parseError) Error() string {
	return e.msg
}

// Key returns the extracted lookahead key that could not be matched.
func (e *parseError) Key() []string {
	return e.key
}

// UnexpectedLookahead returns a Parsing error naming the offending extracted
// lookahead key and, if known, the list of symbols the driver would have
// accepted instead.
func UnexpectedLookahead(key []string, expected []string) error {
	msg := fmt.Sprintf("unexpected input %q", key)
	if len(expected) > 0 {
		msg += "; expected " + textList(expected)
	}
	return &parseError{msg: msg, key: key}
}

// PrematureEOF returns a Parsing error raised when the token stream is
// exhausted before the accepting state is reached.
func PrematureEOF(state string) error {
	return &parseError{msg: fmt.Sprintf("unexpected end of input in state %s", state), prevEOF: true}
}

// IsParseError reports whether err is (or wraps) a Parsing error raised by
// this package.
func IsParseError(err error) bool {
	var e *parseError
	return errors.As(err, &e)
}

// textList joins items into an alternatives clause, in the shape of
// ictiobus's util.MakeTextList but with "or": an Oxford comma for three or
// more, "or" for exactly two, bare for one.
func textList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		out := ""
		for i, it := range items[:len(items)-1] {
			out += it
			if i+1 < len(items)-1 {
				out += ", "
			}
		}
		out += ", or " + items[len(items)-1]
		return out
	}
}
