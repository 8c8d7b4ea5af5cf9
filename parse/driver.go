// Package parse drives a matcher-bound table over a token stream:
// shift-reduce loop, k-token lookahead buffer, pre/post-reduce hooks, and
// an optional trace listener.
// Grounded on ictiobus's lrParser.Parse loop in internal/ictiobus/parse,
// generalized from a single lookahead token to a k-token buffer and from
// a fixed parse-tree result to an opaque semantic value threaded through
// caller-supplied rule actions.
package parse

import (
	"fmt"

	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/internal/util"
	"github.com/dekarrin/lrk/lrkerr"
	"github.com/dekarrin/lrk/lrtable"
	"github.com/dekarrin/lrk/matcher"
)

// Driver is an immutable, reusable parser built from a matcher-bound
// table. A Driver may be used for independent concurrent parses provided
// the caller's rule actions, hooks, and context are themselves safe for
// that.
type Driver struct {
	bound   *matcher.Table
	extract Extract
	trace   TraceListener
	pre     PreReduceHook
	post    PostReduceHook
}

// Option configures a Driver at construction time.
type Option func(*Driver)

// WithExtract overrides the default token-to-match-value extraction.
func WithExtract(fn Extract) Option {
	return func(d *Driver) { d.extract = fn }
}

// WithTraceListener registers a listener that receives one line per
// notable driver event.
func WithTraceListener(fn TraceListener) Option {
	return func(d *Driver) { d.trace = fn }
}

// WithPreReduceHook registers a hook run immediately before a rule's
// Action is invoked.
func WithPreReduceHook(fn PreReduceHook) Option {
	return func(d *Driver) { d.pre = fn }
}

// WithPostReduceHook registers a hook run immediately after a rule's
// Action returns.
func WithPostReduceHook(fn PostReduceHook) Option {
	return func(d *Driver) { d.post = fn }
}

// New builds a Driver over a matcher-bound table.
func New(bound *matcher.Table, opts ...Option) *Driver {
	d := &Driver{bound: bound, extract: DefaultExtract}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) notify(format string, args ...any) {
	if d.trace == nil {
		return
	}
	d.trace(fmt.Sprintf(format, args...))
}

// Parse runs the shift-reduce loop to completion: it fills a k-token
// lookahead buffer from stream, repeatedly looks up the action for
// (state, extracted buffer), and shifts, reduces, or accepts accordingly.
// ctx is forwarded untouched as the first argument to every rule Action.
// Semantic-action errors propagate out unwrapped; the driver does not
// wrap or translate them.
func (d *Driver) Parse(stream TokenStream, ctx any) (any, error) {
	k := d.bound.Source.K

	states := util.Stack[string]{Of: []string{d.bound.Source.DFA.Start}}
	values := util.Stack[any]{}

	buffer := fillBuffer(nil, k, stream)

	for {
		s := states.Peek()
		d.notify("states.peek(): %s", s)

		key := make([]any, len(buffer))
		for i, t := range buffer {
			key[i] = d.extract(t)
		}
		d.notify("Lookahead window: %v", key)

		action, ok := d.bound.Action(s, key)
		if !ok {
			strKey := make([]string, len(key))
			for i, v := range key {
				strKey[i] = fmt.Sprint(v)
			}
			if len(buffer) == 0 {
				return nil, lrkerr.PrematureEOF(s)
			}
			return nil, lrkerr.UnexpectedLookahead(strKey, d.bound.Expected(s, len(key)))
		}
		d.notify("Action: %s", action.Kind.String())

		switch action.Kind {
		case lrtable.Reduce:
			n := len(action.Rule.Right)
			popped := values.PopN(n)
			for i := 0; i < n; i++ {
				states.Pop()
				d.notify("states.pop()")
			}

			if d.pre != nil {
				d.pre(popped)
			}
			newVal, err := action.Rule.Action(ctx, popped)
			if err != nil {
				return nil, err
			}
			if d.post != nil {
				d.post(action.Rule, newVal)
			}
			values.Push(newVal)

			t := states.Peek()
			d.notify("states.peek(): %s", t)
			next, ok := d.bound.Goto(t, string(action.Rule.Left))
			if !ok {
				return nil, fmt.Errorf("parse: no goto from state %s on %s", t, action.Rule.Left)
			}
			states.Push(next)
			d.notify("states.push(): %s", next)

		default: // lrtable.Shift or lrtable.Accept
			// Shift and Accept are the same physical operation: take one
			// more token and decide. At k=0 every lookahead truncates to
			// epsilon, so a state's final augmentation item and its
			// ordinary shift items can legitimately share one action slot
			// (lrtable.Action.Equal); the only way to tell them apart at
			// runtime is whether the stream still has a token to give.
			var tok any
			var hasTok bool
			if len(buffer) > 0 {
				tok = buffer[0]
				buffer = buffer[1:]
				hasTok = true
			} else {
				tok, hasTok = stream.Next()
			}
			if !hasTok {
				if s == d.bound.Source.Accepting && values.Len() == 1 {
					return values.Peek(), nil
				}
				return nil, lrkerr.PrematureEOF(s)
			}
			buffer = fillBuffer(buffer, k, stream)

			shiftedKey := d.extract(tok)
			next, ok := d.bound.Goto(s, shiftedKey)
			if !ok {
				return nil, lrkerr.UnexpectedLookahead([]string{fmt.Sprint(shiftedKey)}, d.bound.Expected(s, 1))
			}
			states.Push(next)
			d.notify("states.push(): %s", next)
			values.Push(tok)
		}
	}
}

// fillBuffer tops buffer up to length k by pulling from stream, stopping
// early if stream is exhausted.
func fillBuffer(buffer []any, k int, stream TokenStream) []any {
	for len(buffer) < k {
		tok, ok := stream.Next()
		if !ok {
			break
		}
		buffer = append(buffer, tok)
	}
	return buffer
}

// Rule is re-exported here purely for godoc convenience at the driver's
// call boundary; it is identical to grammar.Rule.
type Rule = grammar.Rule
