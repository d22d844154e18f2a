// Package assets resolves mesh names against search directories and keeps
// loaded meshes in memory.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/meshload/pkg/formats"
	"github.com/Faultbox/meshload/pkg/mesh"
)

// Manager loads meshes through a mesh.Loader and caches the results.
type Manager struct {
	loader      *mesh.Loader
	preferCache bool
	dirs        []string
	cache       *Cache
	mu          sync.RWMutex
}

// NewManager creates a manager. With preferCache set, a binary cache that
// is at least as new as its source is loaded instead of parsing the source.
func NewManager(loader *mesh.Loader, preferCache bool) *Manager {
	return &Manager{
		loader:      loader,
		preferCache: preferCache,
		cache:       NewCache(),
	}
}

// AddSearchDir adds a directory used to resolve relative mesh names.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddSearchDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding search dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding search dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()

	return nil
}

// Resolve returns the path of the mesh source for name. Absolute names and
// names that exist relative to the working directory are used as given.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) || fileExists(name) {
		return name, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		path := filepath.Join(m.dirs[i], name)
		if fileExists(path) {
			return path, nil
		}
	}

	return "", fmt.Errorf("mesh not found: %s", name)
}

// Load returns the mesh for name, loading it on first use.
func (m *Manager) Load(name string) (*mesh.Mesh, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}

	if cached, ok := m.cache.Get(path); ok {
		return cached, nil
	}

	var loaded *mesh.Mesh
	if m.preferCache && CacheFresh(path) {
		loaded, err = m.loader.LoadBinary(path)
	} else {
		loaded, err = m.loader.Load(path)
	}
	if err != nil {
		return nil, err
	}

	m.cache.Set(path, loaded)
	return loaded, nil
}

// Close drops all cached meshes.
func (m *Manager) Close() {
	hits, misses := m.cache.Stats()
	if m.loader.Logger != nil {
		m.loader.Logger.Debug("mesh cache closed", zap.Int("hits", hits), zap.Int("misses", misses))
	}
	m.cache.Clear()
}

// CacheFresh reports whether all cache files for path exist and none is
// older than the source file itself.
func CacheFresh(path string) bool {
	src, err := os.Stat(path)
	if err != nil {
		return false
	}
	v, i, n := formats.CachePaths(path)
	for _, p := range []string{v, i, n} {
		info, err := os.Stat(p)
		if err != nil || info.ModTime().Before(src.ModTime()) {
			return false
		}
	}
	return true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is a simple in-memory cache of loaded meshes keyed by path.
type Cache struct {
	data map[string]*mesh.Mesh
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*mesh.Mesh),
	}
}

// Get retrieves a mesh from cache.
func (c *Cache) Get(key string) (*mesh.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return m, ok
}

// Set stores a mesh in cache.
func (c *Cache) Set(key string, m *mesh.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = m
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*mesh.Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
