package sidebar

import (
	"strings"
	"sync"

	"github.com/nhath/lazydata/internal/db"
)

// MetadataCache keeps fetched table metadata keyed "db/table". It is
// written from load commands and read on the UI goroutine.
type MetadataCache struct {
	mu      sync.RWMutex
	entries map[string]*db.TableMetadata
}

func NewMetadataCache() *MetadataCache {
	return &MetadataCache{entries: make(map[string]*db.TableMetadata)}
}

func cacheKey(database, table string) string { return database + "/" + table }

func (c *MetadataCache) Get(database, table string) (*db.TableMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[cacheKey(database, table)]
	return m, ok
}

func (c *MetadataCache) Put(database, table string, meta *db.TableMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(database, table)] = meta
}

// Invalidate drops every entry of database.
func (c *MetadataCache) Invalidate(database string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := database + "/"
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
}
