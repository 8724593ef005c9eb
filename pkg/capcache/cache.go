// Package capcache persists capability strings so that repeated runs do
// not have to read them from the display again. Reading a capability
// string takes about 90 ms per 32 byte chunk.
package capcache

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/sync/singleflight"
)

// Entry is one cached capability string
type Entry struct {
	Raw       string    `toml:"raw"`
	FetchedAt time.Time `toml:"fetched_at"`
}

type file struct {
	Displays map[string]Entry `toml:"displays"`
}

// Cache is a capability cache backed by a TOML file. An empty path keeps
// the cache in memory only.
type Cache struct {
	path    string
	mu      sync.RWMutex
	entries map[string]Entry
	group   singleflight.Group
	now     func() time.Time
}

// Open loads the cache at path. A missing file yields an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	if path == "" {
		return c, nil
	}

	var f file
	if _, err := toml.DecodeFile(path, &f); err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("load capability cache: %w", err)
	}
	for key, e := range f.Displays {
		c.entries[key] = e
	}
	return c, nil
}

// Path returns the backing file, empty for in-memory caches
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached capability string for key
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Put stores raw under key and writes the file. The entry is kept only
// if the write succeeds.
func (c *Cache) Put(key, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := maps.Clone(c.entries)
	next[key] = Entry{Raw: raw, FetchedAt: c.now().UTC().Truncate(time.Second)}
	return c.commit(next)
}

// Delete removes key and writes the file
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return nil
	}
	next := maps.Clone(c.entries)
	delete(next, key)
	return c.commit(next)
}

// commit writes entries and makes them current. Callers hold mu.
func (c *Cache) commit(entries map[string]Entry) error {
	if err := c.save(entries); err != nil {
		return err
	}
	c.entries = entries
	return nil
}

// Fetch returns the cached string for key, calling fetch on a miss.
// Concurrent misses for the same key share a single fetch.
func (c *Cache) Fetch(ctx context.Context, key string, fetch func(context.Context) (string, error)) (string, error) {
	if e, ok := c.Get(key); ok {
		return e.Raw, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if e, ok := c.Get(key); ok {
			return e.Raw, nil
		}
		raw, err := fetch(ctx)
		if err != nil {
			return "", err
		}
		if err := c.Put(key, raw); err != nil {
			return "", err
		}
		return raw, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// save writes entries through a temporary file
func (c *Cache) save(entries map[string]Entry) error {
	if c.path == "" {
		return nil
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save capability cache: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".capcache-*")
	if err != nil {
		return fmt.Errorf("save capability cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(file{Displays: entries}); err != nil {
		tmp.Close()
		return fmt.Errorf("save capability cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save capability cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("save capability cache: %w", err)
	}
	return nil
}
