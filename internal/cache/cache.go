// Package cache implements the response cache: a (policy, url) → Response
// map backed by an in-memory SQLite database, so it never touches disk.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"vibrowser/internal/netmodel"
)

// Policy selects cache behavior.
type Policy int

const (
	NoCache Policy = iota
	CacheAll
)

// Cache is a (policy, url) → Response store. Safe for single-caller use
// only; the mutex here guards the sql.DB handle itself, not cross-navigation
// ordering.
type Cache struct {
	mu     sync.Mutex
	db     *sql.DB
	policy Policy
}

// New opens an in-memory SQLite-backed cache. Each Cache gets its own
// private database so Caches never share state.
func New() (*Cache, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE entries (url TEXT PRIMARY KEY, response TEXT NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}
	return &Cache{db: db, policy: NoCache}, nil
}

// Close releases the backing database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SetPolicy changes future Store/Lookup behavior without evicting entries:
// switching to NoCache simply hides them until policy swaps back.
func (c *Cache) SetPolicy(p Policy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}

// Store inserts or overwrites url's entry, unless the cache is in NoCache
// mode or resp is an error response: error responses are never cached.
func (c *Cache) Store(url string, resp netmodel.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.policy == NoCache || resp.IsError() {
		return nil
	}
	blob, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache: marshal response: %w", err)
	}
	_, err = c.db.Exec(`INSERT INTO entries(url, response) VALUES (?, ?)
		ON CONFLICT(url) DO UPDATE SET response = excluded.response`, url, string(blob))
	return err
}

// Lookup returns url's cached response and true, or false if the cache is
// in NoCache mode or holds no entry for url. Storing one url's response
// never changes another url's lookup result.
func (c *Cache) Lookup(url string) (netmodel.Response, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.policy == NoCache {
		return netmodel.Response{}, false, nil
	}
	var blob string
	err := c.db.QueryRow(`SELECT response FROM entries WHERE url = ?`, url).Scan(&blob)
	if err == sql.ErrNoRows {
		return netmodel.Response{}, false, nil
	}
	if err != nil {
		return netmodel.Response{}, false, err
	}
	var resp netmodel.Response
	if err := json.Unmarshal([]byte(blob), &resp); err != nil {
		return netmodel.Response{}, false, fmt.Errorf("cache: unmarshal response: %w", err)
	}
	return resp, true, nil
}

// Clear empties all entries regardless of policy.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.db.Exec(`DELETE FROM entries`)
	return err
}

// Size reports the number of entries; always 0 under NoCache, which hides
// entries stored earlier from Size just as it does from Lookup.
func (c *Cache) Size() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.policy == NoCache {
		// NoCache hides entries from lookup and size alike.
		return 0, nil
	}
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}
