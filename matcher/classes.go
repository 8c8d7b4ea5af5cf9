package matcher

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/rangetable"

	"github.com/dekarrin/lrk/grammar"
)

// Any is the identity matcher: it accepts any extracted value regardless
// of content.
func Any(_ any) bool { return true }

// charClasses binds three conventional terminal-symbol spellings to
// character-class range tables. Callers are free to ignore this registry
// entirely and supply their own Map.
var charClasses = map[grammar.Symbol]*unicode.RangeTable{
	"whitespace":   rangetable.New(' ', '\t', '\n', '\r', '\v', '\f'),
	"digit":        unicode.Number,
	"alphanumeric": rangetable.Merge(unicode.Letter, unicode.Number),
}

// classPredicate accepts a single-rune string extracted value that falls
// in table's Unicode range.
func classPredicate(table *unicode.RangeTable) Predicate {
	return func(extracted any) bool {
		s, ok := extracted.(string)
		if !ok {
			return false
		}
		r := []rune(s)
		if len(r) != 1 {
			return false
		}
		return runes.In(table).Contains(r[0])
	}
}

// Default returns the core-provided matcher map: the any-match predicate
// under symbol "any", and whitespace/digit/alphanumeric character-class
// predicates.
func Default() Map {
	m := Map{"any": Any}
	for symbol, table := range charClasses {
		m[symbol] = classPredicate(table)
	}
	return m
}
