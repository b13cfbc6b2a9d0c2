/*
Package sqlite provides a SQLite-backed run cache.

PURPOSE:
  Implements pipeline.Cache on a local SQLite file. A benefit run over the
  same spreadsheets is deterministic, so caching the serialized result by
  content hash makes repeated runs free. Entries expire by age; expired
  rows are skipped on read and swept by Purge.

SCHEMA:
  run_cache(key TEXT PRIMARY KEY, payload BLOB, created_at TIMESTAMP)

  The key is already a sha256 hex digest, so the primary key doubles as
  the only index needed.

CONCURRENCY:
  sync.RWMutex around the connection, WAL mode on open.

USAGE:
  cache, err := sqlite.New("./data/runs.db", 24*time.Hour)
  if err != nil { ... }
  defer cache.Close()
  runner := pipeline.NewRunner(log, pipeline.WithCache(cache))
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/pipeline"
)

// Cache is a SQLite-backed pipeline.Cache.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.RWMutex
}

var _ pipeline.Cache = (*Cache)(nil)

// New opens (or creates) the cache database. A zero TTL never expires.
// Use ":memory:" for an in-memory database.
func New(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS run_cache (
			key        TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate cache schema: %w", err)
	}
	return nil
}

// Get returns the cached payload for key, or benefit.ErrCacheMiss when the
// entry is absent or older than the TTL.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var payload []byte
	var createdAt time.Time
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM run_cache WHERE key = ?`, key,
	).Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, benefit.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}
	if c.ttl > 0 && time.Since(createdAt) > c.ttl {
		return nil, benefit.ErrCacheMiss
	}
	return payload, nil
}

// Put stores or replaces the payload under key.
func (c *Cache) Put(ctx context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO run_cache (key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed. A zero
// TTL makes this a no-op.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx,
		`DELETE FROM run_cache WHERE created_at < ?`, time.Now().UTC().Add(-c.ttl),
	)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}
