package grammar

// Symbol is an opaque, hashable grammar-symbol identifier. ictiobus keys its
// items and automaton states off of plain strings (grammar.LR0Item.Left,
// DFA[E]'s map[string]...); Symbol is that same representation given a name
// so call sites read as "a grammar symbol" rather than "a string".
type Symbol string

// augmentedStartSymbol is the synthetic non-terminal S' introduced by
// Grammar.Augmented. It is built from a control character (0x00) that
// cannot appear in any symbol spelled out in source text, avoiding the
// empty-string sentinel hazard ictiobus's own augmentation uses.
const augmentedStartSymbol Symbol = "\x00START'"
