package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func keysOf(ts []TermString) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Key()
	}
	return out
}

func Test_NewFirstSets_k0(t *testing.T) {
	assert := assert.New(t)

	g, err := New([]Rule{
		{Left: "S", Right: []Symbol{"A"}, Action: noopAction},
		{Left: "A", Right: []Symbol{"a"}, Action: noopAction},
		{Left: "A", Right: []Symbol{}, Action: noopAction},
	})
	assert.NoError(err)

	fs := NewFirstSets(g, 0)
	assert.Equal(0, fs.K())

	// at k=0 every FIRST_k set is exactly {epsilon}
	for _, nt := range g.NonTerminals() {
		set := fs.Of([]Symbol{nt})
		assert.Equal(1, set.Len())
		assert.Equal([]string{""}, keysOf(set.Slice()))
	}
}

func Test_NewFirstSets_terminal(t *testing.T) {
	assert := assert.New(t)

	g, err := New([]Rule{
		{Left: "S", Right: []Symbol{"a", "b"}, Action: noopAction},
	})
	assert.NoError(err)

	fs := NewFirstSets(g, 2)
	set := fs.Of([]Symbol{"S"})
	assert.Equal(1, set.Len())
	assert.Equal(TermString{"a", "b"}, set.Slice()[0])
}

func Test_NewFirstSets_alternatives(t *testing.T) {
	assert := assert.New(t)

	g, err := New([]Rule{
		{Left: "S", Right: []Symbol{"A"}, Action: noopAction},
		{Left: "A", Right: []Symbol{"a"}, Action: noopAction},
		{Left: "A", Right: []Symbol{"b"}, Action: noopAction},
	})
	assert.NoError(err)

	fs := NewFirstSets(g, 1)
	set := fs.Of([]Symbol{"S"})
	assert.ElementsMatch([]string{"a", "b"}, keysOf(set.Slice()))
}

func Test_NewFirstSets_leftRecursion(t *testing.T) {
	assert := assert.New(t)

	// L -> eps | L item ; classic left-recursive list grammar.
	g, err := New([]Rule{
		{Left: "L", Right: []Symbol{}, Action: noopAction},
		{Left: "L", Right: []Symbol{"L", "item"}, Action: noopAction},
	})
	assert.NoError(err)

	fs := NewFirstSets(g, 2)
	set := fs.Of([]Symbol{"L"})
	keys := keysOf(set.Slice())
	assert.Contains(keys, "")
	assert.Contains(keys, "item")
}

func Test_TermString_Concat_TruncateK(t *testing.T) {
	assert := assert.New(t)

	a := TermString{"x", "y"}
	b := TermString{"z"}
	assert.Equal(TermString{"x", "y", "z"}, a.Concat(b))
	assert.Equal(TermString{"x", "y"}, a.Concat(b).TruncateK(2))
	assert.Equal(TermString{}, TermString{}.TruncateK(2))
}
