package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/lrkerr"
	"github.com/dekarrin/lrk/lrtable"
	"github.com/dekarrin/lrk/matcher"
)

// listDriver builds the driver for the LR(0) list grammar L -> eps | L
// item, with actions that build a []any of shifted values.
func listDriver(t *testing.T, opts ...Option) *Driver {
	t.Helper()

	g, err := grammar.New([]grammar.Rule{
		{Left: "L", Right: []grammar.Symbol{}, Action: func(_ any, _ []any) (any, error) {
			return []any{}, nil
		}},
		{Left: "L", Right: []grammar.Symbol{"L", "item"}, Action: func(_ any, popped []any) (any, error) {
			list := popped[0].([]any)
			return append(append([]any{}, list...), popped[1]), nil
		}},
	})
	assert.NoError(t, err)

	table, err := lrtable.Build(g, 0, lrtable.Options{})
	assert.NoError(t, err)

	bound := matcher.Bind(table, nil)
	return New(bound, opts...)
}

// Test_Driver_listGrammar_empty covers the empty-input case: "()" -> [].
func Test_Driver_listGrammar_empty(t *testing.T) {
	assert := assert.New(t)

	d := listDriver(t)
	result, err := d.Parse(NewSliceStream(), nil)
	assert.NoError(err)
	assert.Equal([]any{}, result)
}

// Test_Driver_listGrammar_fourItems covers the non-empty case:
// "(item, item, item, item)" -> ['item','item','item','item'].
func Test_Driver_listGrammar_fourItems(t *testing.T) {
	assert := assert.New(t)

	d := listDriver(t)
	result, err := d.Parse(NewSliceStream("item", "item", "item", "item"), nil)
	assert.NoError(err)
	assert.Equal([]any{"item", "item", "item", "item"}, result)
}

// Test_Driver_listGrammar_customExtract covers parsing "spam" with an
// extract that routes every token to the single terminal "item"
// regardless of its actual value.
func Test_Driver_listGrammar_customExtract(t *testing.T) {
	assert := assert.New(t)

	alwaysItem := func(_ any) any { return "item" }
	d := listDriver(t, WithExtract(alwaysItem))

	result, err := d.Parse(NewSliceStream("s", "p", "a", "m"), nil)
	assert.NoError(err)
	assert.Equal([]any{"s", "p", "a", "m"}, result)
}

// Test_Driver_listGrammar_defaultExtractRejects covers parsing "spam"
// with the default extract, which must fail with the error naming the
// unexpected token 's'.
func Test_Driver_listGrammar_defaultExtractRejects(t *testing.T) {
	assert := assert.New(t)

	d := listDriver(t)
	_, err := d.Parse(NewSliceStream("s", "p", "a", "m"), nil)
	assert.Error(err)
	assert.True(lrkerr.IsParseError(err))
	assert.Contains(err.Error(), "s")
}

// exprNode is the test's semantic value for the expression grammar: a leaf
// (Leaf set, Children nil) or an E -> E '+' T node (Children has exactly
// two entries).
type exprNode struct {
	Leaf     string
	Children []*exprNode
}

func leaf(s string) *exprNode { return &exprNode{Leaf: s} }

// depth returns the number of nested E -> E '+' T applications under n.
func (n *exprNode) depth() int {
	if n.Children == nil {
		return 0
	}
	left := n.Children[0].depth()
	return left + 1
}

// Test_Driver_exprGrammar_leftAssociatedDepth covers E := E '+' T | T;
// T := 'id', k=1, where parsing ('id','+','id','+','id') yields a
// left-associated tree of depth 2.
func Test_Driver_exprGrammar_leftAssociatedDepth(t *testing.T) {
	assert := assert.New(t)

	g, err := grammar.New([]grammar.Rule{
		{Left: "E", Right: []grammar.Symbol{"E", "+", "T"}, Action: func(_ any, popped []any) (any, error) {
			return &exprNode{Children: []*exprNode{popped[0].(*exprNode), popped[2].(*exprNode)}}, nil
		}},
		{Left: "E", Right: []grammar.Symbol{"T"}, Action: func(_ any, popped []any) (any, error) {
			return popped[0].(*exprNode), nil
		}},
		{Left: "T", Right: []grammar.Symbol{"id"}, Action: func(_ any, popped []any) (any, error) {
			return leaf(popped[0].(string)), nil
		}},
	})
	assert.NoError(err)

	table, err := lrtable.Build(g, 1, lrtable.Options{})
	assert.NoError(err)

	bound := matcher.Bind(table, nil)
	d := New(bound)

	result, err := d.Parse(NewSliceStream("id", "+", "id", "+", "id"), nil)
	assert.NoError(err)

	root, ok := result.(*exprNode)
	assert.True(ok)
	assert.Equal(2, root.depth())
}

// Test_Driver_nullableRoot_acceptsEmptyInput covers empty input on a
// nullable root (S := eps), which accepts and returns the value produced
// by the eps action.
func Test_Driver_nullableRoot_acceptsEmptyInput(t *testing.T) {
	assert := assert.New(t)

	sentinel := "the eps value"
	g, err := grammar.New([]grammar.Rule{
		{Left: "S", Right: []grammar.Symbol{}, Action: func(_ any, _ []any) (any, error) {
			return sentinel, nil
		}},
	})
	assert.NoError(err)

	table, err := lrtable.Build(g, 0, lrtable.Options{})
	assert.NoError(err)

	bound := matcher.Bind(table, nil)
	d := New(bound)

	result, err := d.Parse(NewSliceStream(), nil)
	assert.NoError(err)
	assert.Equal(sentinel, result)
}

// Test_Driver_hooks covers the pre/post-reduce hook wiring.
func Test_Driver_hooks(t *testing.T) {
	assert := assert.New(t)

	var preCount, postCount int
	d := listDriver(t,
		WithPreReduceHook(func(_ []any) { preCount++ }),
		WithPostReduceHook(func(_ grammar.Rule, _ any) { postCount++ }),
	)

	_, err := d.Parse(NewSliceStream("item", "item"), nil)
	assert.NoError(err)
	assert.Equal(3, preCount) // eps + two L->L item reduces
	assert.Equal(3, postCount)
}

// Test_Driver_traceListener covers trace-line emission.
func Test_Driver_traceListener(t *testing.T) {
	assert := assert.New(t)

	var lines []string
	d := listDriver(t, WithTraceListener(func(line string) {
		lines = append(lines, line)
	}))

	_, err := d.Parse(NewSliceStream("item"), nil)
	assert.NoError(err)
	assert.NotEmpty(lines)
}
