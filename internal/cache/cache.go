// Package cache provides an on-disk parse cache so repeated load passes can
// skip re-reading unchanged manifests.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/util"
)

// Record is one cached parse result with invalidation metadata.
type Record struct {
	Entry    model.Entry `json:"entry"`
	CachedAt time.Time   `json:"cached_at"`
	// SourceMod is the manifest's modification time when cached. A newer
	// mtime on disk invalidates the record.
	SourceMod time.Time `json:"source_mod"`
}

// Cache manages cached parse results keyed by manifest path.
// Lookups are safe for concurrent use: parallel parse workers hit the cache
// at the same time, and Get evicts stale records while others read.
type Cache struct {
	Version string            `json:"version"`
	Records map[string]Record `json:"records"`

	mu   sync.RWMutex
	path string
}

const (
	cacheVersion = "1.0"
	// DefaultTTL is the default time-to-live for cache records
	DefaultTTL = 1 * time.Hour
)

// New creates or loads a cache for the given source name (e.g., "skills").
// If cacheDir is empty, defaults to ~/.openskills/cache.
func New(sourceName string, cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		cacheDir = util.CacheDir()
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, err
	}

	cachePath := filepath.Join(cacheDir, sourceName+".json")
	cache := &Cache{
		Version: cacheVersion,
		Records: make(map[string]Record),
		path:    cachePath,
	}

	// Try to load existing cache
	// #nosec G304 - cachePath is constructed from trusted configuration path
	if data, err := os.ReadFile(cachePath); err == nil {
		if err := json.Unmarshal(data, cache); err != nil {
			// Corrupted cache, start fresh
			cache.Records = make(map[string]Record)
		}
		// Version mismatch, invalidate cache
		if cache.Version != cacheVersion {
			cache.Records = make(map[string]Record)
			cache.Version = cacheVersion
		}
	}

	cache.path = cachePath
	return cache, nil
}

// Get retrieves a cached entry if it exists and the manifest on disk has not
// been modified since it was cached. Stale records are evicted.
func (c *Cache) Get(manifestPath string) (model.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	record, exists := c.Records[manifestPath]
	if !exists {
		return model.Entry{}, false
	}

	info, err := os.Stat(manifestPath)
	if err != nil {
		// Manifest is gone; drop the record.
		delete(c.Records, manifestPath)
		return model.Entry{}, false
	}
	if info.ModTime().After(record.SourceMod) {
		delete(c.Records, manifestPath)
		return model.Entry{}, false
	}

	return record.Entry, true
}

// Set stores a parsed entry in the cache.
func (c *Cache) Set(entry model.Entry) {
	sourceMod := entry.ModifiedAt
	if sourceMod.IsZero() {
		if info, err := os.Stat(entry.ManifestPath); err == nil {
			sourceMod = info.ModTime()
		} else {
			sourceMod = time.Now()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Records[entry.ManifestPath] = Record{
		Entry:     entry,
		CachedAt:  time.Now(),
		SourceMod: sourceMod,
	}
}

// Save persists the cache to disk
func (c *Cache) Save() error {
	c.mu.RLock()
	data, err := json.MarshalIndent(c, "", "  ")
	c.mu.RUnlock()
	if err != nil {
		return err
	}
	// #nosec G306 - cache files should be readable by user
	return os.WriteFile(c.path, data, 0o644)
}

// Clear removes all records from the cache
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.Records = make(map[string]Record)
	c.mu.Unlock()

	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Size returns the number of records in the cache
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.Records)
}

// Prune removes stale records based on TTL
func (c *Cache) Prune(ttl time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	for key, record := range c.Records {
		if time.Since(record.CachedAt) > ttl {
			delete(c.Records, key)
			pruned++
		}
	}
	return pruned
}
