// Package cache persists constructed LR(k) tables to a local SQLite
// database so that repeated builds of the same grammar+k skip table
// construction entirely.
//
// The cache sits strictly above the core: lrtable.Build remains a pure,
// synchronous in-memory computation, and this package is the only library
// package in this module that touches a filesystem (the cmd/lrkc tool also
// reads its grammar file). Grounded on tunaq's
// server/dao/sqlite package (database/sql over
// modernc.org/sqlite, github.com/dekarrin/rezi for blob encoding,
// github.com/google/uuid for row identifiers), adapted from a game-save
// store to a parser-table memo.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	_ "modernc.org/sqlite"

	"github.com/dekarrin/lrk/grammar"
	"github.com/dekarrin/lrk/lrtable"
)

// Cache is a SQLite-backed memo of built tables, keyed by a digest of the
// grammar definition plus lookahead bound k.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// ensures its schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	c := &Cache{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS builds (
		id TEXT NOT NULL PRIMARY KEY,
		digest TEXT NOT NULL UNIQUE,
		k INTEGER NOT NULL,
		data BLOB NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("cache: init schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Digest computes the cache key for a grammar and lookahead bound: a
// blake2b-256 hash over the rules' canonical textual form (left, right,
// in insertion order) and k. Rule actions are opaque closures and
// contribute nothing to the digest; two grammars that differ only in
// their rule actions collide deliberately, since the structural table is
// identical either way.
func Digest(g grammar.Grammar, k int) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a too-long key, and we pass none.
		panic(err)
	}
	for _, r := range g.Rules() {
		fmt.Fprintf(h, "%s\x1f", r.String())
	}
	fmt.Fprintf(h, "\x1e%d", k)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// BuildOrLoad returns the LR(k) table for g at bound k, building it via
// lrtable.Build and persisting a Snapshot on a cache miss, or
// reconstructing the table from a stored Snapshot (via
// lrtable.FromSnapshot) on a cache hit -- performing no closure or
// FIRST_k recomputation in that case. The build is tagged with a fresh
// UUID for trace/log correlation; callers that want that identifier can
// retrieve it via the returned buildID.
func (c *Cache) BuildOrLoad(ctx context.Context, g grammar.Grammar, k int, opts lrtable.Options) (table *lrtable.Table, buildID uuid.UUID, err error) {
	digest := Digest(g, k)

	var data []byte
	row := c.db.QueryRowContext(ctx, `SELECT data FROM builds WHERE digest = ?`, digest)
	scanErr := row.Scan(&data)
	switch scanErr {
	case nil:
		var snap lrtable.Snapshot
		if _, err := rezi.DecBinary(data, &snap); err != nil {
			return nil, uuid.UUID{}, fmt.Errorf("cache: decode stored table for digest %s: %w", digest, err)
		}
		aug := g.Augmented()
		return lrtable.FromSnapshot(aug, snap), uuid.UUID{}, nil

	case sql.ErrNoRows:
		built, err := lrtable.Build(g, k, opts)
		if err != nil {
			return nil, uuid.UUID{}, err
		}

		id, err := uuid.NewRandom()
		if err != nil {
			return nil, uuid.UUID{}, fmt.Errorf("cache: generate build id: %w", err)
		}

		snap := built.Snapshot()
		blob := rezi.EncBinary(snap)

		_, err = c.db.ExecContext(ctx,
			`INSERT INTO builds (id, digest, k, data, created) VALUES (?, ?, ?, ?, ?)`,
			id.String(), digest, k, blob, time.Now().Unix(),
		)
		if err != nil {
			return nil, uuid.UUID{}, fmt.Errorf("cache: store built table: %w", err)
		}

		return built, id, nil

	default:
		return nil, uuid.UUID{}, fmt.Errorf("cache: lookup digest %s: %w", digest, scanErr)
	}
}

// Invalidate removes the cached entry for g at k, if any, forcing the
// next BuildOrLoad call to reconstruct the table from scratch.
func (c *Cache) Invalidate(ctx context.Context, g grammar.Grammar, k int) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM builds WHERE digest = ?`, Digest(g, k))
	if err != nil {
		return fmt.Errorf("cache: invalidate: %w", err)
	}
	return nil
}
