package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noopAction(_ any, popped []any) (any, error) { return popped, nil }

func Test_New(t *testing.T) {
	testCases := []struct {
		name      string
		rules     []Rule
		expectErr bool
	}{
		{
			name:      "no rules is an error",
			rules:     nil,
			expectErr: true,
		},
		{
			name: "single rule",
			rules: []Rule{
				{Left: "S", Right: []Symbol{"a"}, Action: noopAction},
			},
		},
		{
			name: "several rules, same left",
			rules: []Rule{
				{Left: "S", Right: []Symbol{"a"}, Action: noopAction},
				{Left: "S", Right: []Symbol{"b"}, Action: noopAction},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := New(tc.rules)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(len(tc.rules), g.RuleCount())
		})
	}
}

func Test_Grammar_IsTerminal(t *testing.T) {
	assert := assert.New(t)

	g, err := New([]Rule{
		{Left: "S", Right: []Symbol{"S", "a"}, Action: noopAction},
		{Left: "S", Right: []Symbol{}, Action: noopAction},
	})
	assert.NoError(err)

	assert.True(g.IsNonTerminal("S"))
	assert.False(g.IsTerminal("S"))
	assert.True(g.IsTerminal("a"))
	assert.False(g.IsNonTerminal("a"))
}

func Test_Grammar_RulesFor(t *testing.T) {
	assert := assert.New(t)

	g, err := New([]Rule{
		{Left: "S", Right: []Symbol{"A"}, Action: noopAction},
		{Left: "A", Right: []Symbol{"a"}, Action: noopAction},
		{Left: "A", Right: []Symbol{"b"}, Action: noopAction},
	})
	assert.NoError(err)

	assert.Equal([]int{1, 2}, g.RulesFor("A"))
	assert.Empty(g.RulesFor("nonexistent"))
}

func Test_Grammar_Augmented(t *testing.T) {
	assert := assert.New(t)

	g, err := New([]Rule{
		{Left: "S", Right: []Symbol{"a"}, Action: noopAction},
	})
	assert.NoError(err)

	aug := g.Augmented()
	assert.Equal(g.RuleCount()+1, aug.RuleCount())
	assert.Equal(AugmentedStart(), aug.Rule(0).Left)
	assert.Equal([]Symbol{"S"}, aug.Rule(0).Right)
	assert.True(aug.IsNonTerminal(AugmentedStart()))
}

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		rules     []Rule
		expectErr bool
	}{
		{
			name: "all reachable",
			rules: []Rule{
				{Left: "S", Right: []Symbol{"A"}, Action: noopAction},
				{Left: "A", Right: []Symbol{"a"}, Action: noopAction},
			},
		},
		{
			name: "unreachable non-terminal",
			rules: []Rule{
				{Left: "S", Right: []Symbol{"a"}, Action: noopAction},
				{Left: "Dead", Right: []Symbol{"b"}, Action: noopAction},
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := New(tc.rules)
			assert.NoError(err)

			err = g.Validate()
			if tc.expectErr {
				assert.Error(err)
			} else {
				assert.NoError(err)
			}
		})
	}
}
