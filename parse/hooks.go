package parse

import "github.com/dekarrin/lrk/grammar"

// PreReduceHook is invoked with the popped semantic values immediately
// before a rule's Action runs. Used for tracing and instrumentation.
type PreReduceHook func(popped []any)

// PostReduceHook is invoked with the rule just reduced and the value its
// Action produced, immediately after the Action returns.
type PostReduceHook func(rule grammar.Rule, value any)

// TraceListener receives a human-readable trace line for every notable
// driver event: state peek/push/pop, lookahead window, action taken. A nil
// listener means tracing is off, grounded on ictiobus's
// lrParser.trace/RegisterTraceListener.
type TraceListener func(line string)
