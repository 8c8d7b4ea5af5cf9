package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/lrtable"
)

func noopAction(_ any, popped []any) (any, error) { return popped, nil }

func exprGrammar(t *testing.T) grammar.Grammar {
	t.Helper()
	g, err := grammar.New([]grammar.Rule{
		{Left: "E", Right: []grammar.Symbol{"E", "+", "T"}, Action: noopAction},
		{Left: "E", Right: []grammar.Symbol{"T"}, Action: noopAction},
		{Left: "T", Right: []grammar.Symbol{"id"}, Action: noopAction},
	})
	assert.NoError(t, err)
	return g
}

func openCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "builds.db")
	c, err := Open(path)
	assert.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func Test_Digest_deterministic(t *testing.T) {
	assert := assert.New(t)

	g := exprGrammar(t)
	assert.Equal(Digest(g, 1), Digest(g, 1))
	assert.NotEqual(Digest(g, 1), Digest(g, 2))
}

// Test_BuildOrLoad_missThenHit covers the cache's central property: a
// second call with the same grammar+k returns a String()-equal table
// without rebuilding. A non-zero buildID marks the miss path; the hit path
// always returns the zero UUID, since FromSnapshot never generates one.
func Test_BuildOrLoad_missThenHit(t *testing.T) {
	assert := assert.New(t)

	c := openCache(t)
	ctx := context.Background()
	g := exprGrammar(t)

	first, firstID, err := c.BuildOrLoad(ctx, g, 1, lrtable.Options{})
	assert.NoError(err)
	assert.NotEqual(uuid.UUID{}, firstID)

	second, secondID, err := c.BuildOrLoad(ctx, g, 1, lrtable.Options{})
	assert.NoError(err)
	assert.Equal(uuid.UUID{}, secondID)

	assert.Equal(first.String(), second.String())
	assert.Equal(first.Accepting, second.Accepting)
}

// Test_BuildOrLoad_distinctKIsDistinctEntry covers that the cache key
// includes k: the same grammar at two different lookahead bounds must not
// collide, and each is built (miss) independently.
func Test_BuildOrLoad_distinctKIsDistinctEntry(t *testing.T) {
	assert := assert.New(t)

	c := openCache(t)
	ctx := context.Background()
	g := exprGrammar(t)

	table1, id1, err := c.BuildOrLoad(ctx, g, 1, lrtable.Options{})
	assert.NoError(err)
	assert.NotEqual(uuid.UUID{}, id1)
	assert.NotEmpty(table1.Accepting)

	table2, id2, err := c.BuildOrLoad(ctx, g, 2, lrtable.Options{})
	assert.NoError(err)
	assert.NotEqual(uuid.UUID{}, id2)
	assert.NotEqual(id1, id2)
	assert.NotEmpty(table2.Accepting)
}

// Test_Invalidate_forcesRebuild covers that Invalidate clears the stored
// entry so the next BuildOrLoad call is a fresh miss (non-zero build ID).
func Test_Invalidate_forcesRebuild(t *testing.T) {
	assert := assert.New(t)

	c := openCache(t)
	ctx := context.Background()
	g := exprGrammar(t)

	_, firstID, err := c.BuildOrLoad(ctx, g, 1, lrtable.Options{})
	assert.NoError(err)

	assert.NoError(c.Invalidate(ctx, g, 1))

	_, secondID, err := c.BuildOrLoad(ctx, g, 1, lrtable.Options{})
	assert.NoError(err)
	assert.NotEqual(uuid.UUID{}, secondID)
	assert.NotEqual(firstID, secondID)
}
