// Package fetchcache keeps the last successful result of a remote fetch on
// disk so it can stand in, marked stale, when the network is unavailable.
//
// Lookups are network-first: the fetch always runs, a success replaces the
// stored copy, and only a failed fetch falls back to what was stored.
package fetchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const defaultMaxAge = 7 * 24 * time.Hour

// Cache provides network-first caching with file-backed JSON storage.
type Cache struct {
	dir    string
	maxAge time.Duration
}

// New returns a cache rooted at dir with the default fallback age.
func New(dir string) *Cache {
	return &Cache{dir: dir, maxAge: defaultMaxAge}
}

// NewDefault returns a cache rooted at the OS user cache dir.
func NewDefault() *Cache {
	return New(DefaultDir())
}

// WithMaxAge returns a cache rooted at dir whose entries stop serving as a
// fallback once older than maxAge. A non-positive maxAge never expires.
func WithMaxAge(dir string, maxAge time.Duration) *Cache {
	return &Cache{dir: dir, maxAge: maxAge}
}

// FetchOrFallback runs fetch and stores its result under key. If fetch
// fails and a usable entry exists, the entry's data is returned with
// fresh=false and a nil error. Otherwise the fetch error is returned.
func FetchOrFallback[T any](c *Cache, ctx context.Context, key string, fetch func(context.Context) (T, error)) (data T, fresh bool, err error) {
	data, err = fetch(ctx)
	if err == nil {
		if c != nil && c.dir != "" {
			_ = writeEntry(c, key, Entry[T]{Data: data, FetchedAt: time.Now()})
		}
		return data, true, nil
	}

	if c == nil || c.dir == "" {
		var zero T
		return zero, false, err
	}

	entry, ok, readErr := readEntry[T](c, key)
	if readErr != nil || !ok || !c.usable(entry.FetchedAt) {
		var zero T
		return zero, false, err
	}
	return entry.Data, false, nil
}

// Lookup returns the stored entry for key without fetching.
func Lookup[T any](c *Cache, key string) (Entry[T], bool) {
	if c == nil || c.dir == "" {
		return Entry[T]{}, false
	}
	entry, ok, err := readEntry[T](c, key)
	if err != nil || !ok {
		return Entry[T]{}, false
	}
	return entry, true
}

// Invalidate removes a single cached entry.
func (c *Cache) Invalidate(key string) error {
	if c == nil || c.dir == "" {
		return nil
	}

	err := os.Remove(c.pathForKey(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cached entries in the cache directory.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func (c *Cache) usable(fetchedAt time.Time) bool {
	if c.maxAge <= 0 {
		return true
	}
	return time.Since(fetchedAt) <= c.maxAge
}

func readEntry[T any](c *Cache, key string) (Entry[T], bool, error) {
	var zero Entry[T]
	path := c.pathForKey(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return zero, false, nil
		}
		return zero, false, err
	}

	var entry Entry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		return zero, false, nil
	}

	return entry, true, nil
}

func writeEntry[T any](c *Cache, key string, entry Entry[T]) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, fileName(key)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}

	return os.Rename(name, c.pathForKey(key))
}

func (c *Cache) pathForKey(key string) string {
	return filepath.Join(c.dir, fileName(key))
}

// DefaultDir returns the per-user cache directory for fetched users.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "usersync", "users")
}

// fileName maps key to a file name. Distinct keys never share a file,
// whatever characters they contain.
func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + ".json"
}
