/*
cache.go - Read-through run cache

KEY:
  sha256 of a canonical serialization of the request (reference month,
  configuration, sources, holidays). Identical input always hashes to the
  same key, so a cache hit is a byte-for-byte replay of an earlier run,
  original run ID included.

IMPLEMENTATIONS:
  - store/sqlite: durable, TTL enforced on read
  - MemoryCache below: tests and cache-disabled setups
*/
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/warp/benefit-engine/benefit"
)

// Cache stores serialized run results by content key. Get returns
// benefit.ErrCacheMiss when no fresh entry exists.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
}

// CacheKey derives the content-addressed key for a request.
func CacheKey(req Request) string {
	h := sha256.New()

	enc := json.NewEncoder(h)
	_ = enc.Encode(req.Reference)
	_ = enc.Encode(req.Config)
	_ = enc.Encode(req.Holidays)

	// Map iteration order is random; serialize categories sorted.
	categories := make([]string, 0, len(req.Sources))
	for c := range req.Sources {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)
	for _, c := range categories {
		_ = enc.Encode(c)
		for _, row := range req.Sources[benefit.Category(c)] {
			cols := make([]string, 0, len(row))
			for col := range row {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				_ = enc.Encode(col)
				_ = enc.Encode(row[col])
			}
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (r *Runner) lookupCache(req Request) (*RunResult, bool) {
	if r.cache == nil {
		return nil, false
	}
	payload, err := r.cache.Get(context.Background(), CacheKey(req))
	if err != nil {
		return nil, false
	}
	var result RunResult
	if err := json.Unmarshal(payload, &result); err != nil {
		r.log.Warn().Err(err).Msg("corrupt cache entry ignored")
		return nil, false
	}
	result.FromCache = true
	r.log.Debug().Str("run_id", result.RunID).Msg("cache hit")
	return &result, true
}

func (r *Runner) storeCache(req Request, result *RunResult) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		r.log.Warn().Err(err).Msg("run result not cacheable")
		return
	}
	if err := r.cache.Put(context.Background(), CacheKey(req), payload); err != nil {
		r.log.Warn().Err(err).Msg("cache write failed")
	}
}

// =============================================================================
// MEMORY CACHE - For tests and cache-disabled setups
// =============================================================================

// MemoryCache is a TTL-bounded in-memory Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	createdAt time.Time
}

// NewMemoryCache creates an in-memory cache. A zero TTL never expires.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, benefit.ErrCacheMiss
	}
	if m.ttl > 0 && time.Since(entry.createdAt) > m.ttl {
		return nil, benefit.ErrCacheMiss
	}
	return entry.payload, nil
}

func (m *MemoryCache) Put(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{payload: payload, createdAt: time.Now()}
	return nil
}

var _ Cache = (*MemoryCache)(nil)
