package lookup

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/matsen/refcheck/internal/reference"
	_ "modernc.org/sqlite"
)

// Cache persists adapter results in SQLite so repeated batch runs do
// not re-hit the providers. Negative results (a search that returned
// nothing) are cached too; errors are not.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates a lookup cache at the given path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS lookups (
			provider TEXT NOT NULL,
			query_key TEXT NOT NULL,
			candidates_json TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (provider, query_key)
		);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached candidates for (provider, key), with ok
// false on a miss.
func (c *Cache) Get(provider, key string) ([]reference.Candidate, bool, error) {
	var blob string
	err := c.db.QueryRow(
		`SELECT candidates_json FROM lookups WHERE provider = ? AND query_key = ?`,
		provider, key,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache: %w", err)
	}

	var candidates []reference.Candidate
	if err := json.Unmarshal([]byte(blob), &candidates); err != nil {
		return nil, false, fmt.Errorf("decoding cached candidates: %w", err)
	}
	return candidates, true, nil
}

// Put stores candidates for (provider, key), replacing any prior row.
func (c *Cache) Put(provider, key string, candidates []reference.Candidate) error {
	blob, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encoding candidates: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO lookups (provider, query_key, candidates_json, fetched_at) VALUES (?, ?, ?, ?)`,
		provider, key, string(blob), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// CacheKey derives a stable key from the query-relevant fields of a
// parsed reference.
func CacheKey(ref *reference.Parsed) string {
	h := sha256.New()
	h.Write([]byte(reference.Normalize(ref.Title)))
	h.Write([]byte{0})
	h.Write([]byte(reference.NormalizeSurname(ref.FirstAuthor())))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(ref.Year)))
	h.Write([]byte{0})
	h.Write([]byte(ref.DOI))
	return hex.EncodeToString(h.Sum(nil))
}

// CachedAdapter wraps an Adapter with the cache. Lookup errors pass
// through uncached so a provider outage in one run does not poison
// the next.
type CachedAdapter struct {
	inner Adapter
	cache *Cache
}

// NewCachedAdapter wraps inner with cache. A nil cache disables
// caching without changing behavior.
func NewCachedAdapter(inner Adapter, cache *Cache) *CachedAdapter {
	return &CachedAdapter{inner: inner, cache: cache}
}

func (a *CachedAdapter) Name() string { return a.inner.Name() }

func (a *CachedAdapter) Search(ctx context.Context, ref *reference.Parsed) ([]reference.Candidate, error) {
	if a.cache == nil {
		return a.inner.Search(ctx, ref)
	}

	key := CacheKey(ref)
	if candidates, ok, err := a.cache.Get(a.inner.Name(), key); err == nil && ok {
		return candidates, nil
	}

	candidates, err := a.inner.Search(ctx, ref)
	if err != nil {
		return nil, err
	}
	// Best effort; a cache write failure must not fail the lookup.
	_ = a.cache.Put(a.inner.Name(), key, candidates)
	return candidates, nil
}
