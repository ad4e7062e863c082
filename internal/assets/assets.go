// Package assets handles asset loading from PAK archives.
//
// A single Store instance owns the archives, the decoded palette and a
// byte cache, and is passed explicitly to every consumer. There is no
// process-global asset state.
package assets

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sergioffpc/quake-go/internal/logger"
	"github.com/sergioffpc/quake-go/pkg/formats"
	"github.com/sergioffpc/quake-go/pkg/pak"
)

// Store serves named asset bytes from a set of PAK archives.
type Store struct {
	mu       sync.RWMutex
	archives []*pak.Archive
	palette  *formats.Palette
	cache    *Cache
}

// NewStore opens the given archives. Archives are searched in reverse
// order, so later paths take priority.
func NewStore(paths ...string) (*Store, error) {
	store := &Store{cache: NewCache()}

	for _, path := range paths {
		archive, err := pak.Open(path)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("opening archive %s: %w", path, err)
		}
		logger.Info("opened archive",
			zap.String("path", path),
			zap.Int("entries", len(archive.List())))
		store.archives = append(store.archives, archive)
	}

	return store, nil
}

// Load loads a file from the archives.
func (s *Store) Load(name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.archives) - 1; i >= 0; i-- {
		data, err := s.archives[i].Read(name)
		if err == nil {
			s.cache.Set(name, data)
			return data, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", pak.ErrNotFound, name)
}

// LoadPalette reads and decodes the shared color palette. Called once
// at startup by consumers that convert skins to RGBA.
func (s *Store) LoadPalette(name string) error {
	data, err := s.Load(name)
	if err != nil {
		return err
	}

	palette, err := formats.ParsePalette(data)
	if err != nil {
		return fmt.Errorf("decoding palette %s: %w", name, err)
	}

	s.mu.Lock()
	s.palette = palette
	s.mu.Unlock()
	return nil
}

// Palette returns the decoded palette, or nil before LoadPalette.
func (s *Store) Palette() *formats.Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.palette
}

// Close closes all archives, combining any errors.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	for _, archive := range s.archives {
		err = multierr.Append(err, archive.Close())
	}
	s.archives = nil
	s.cache.Clear()
	return err
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	mu   sync.RWMutex
	data map[string][]byte

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{data: make(map[string][]byte)}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
