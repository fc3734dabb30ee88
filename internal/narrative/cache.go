package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/alexanderramin/tally/internal/domain"
)

// Cache stores finished narratives by context key.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.NarrativeReport, bool, error)
	Put(ctx context.Context, key string, report *domain.NarrativeReport) error
}

// ContextKey identifies a narrative request: the same file and table sent to
// the same model with the same prompt always yields the same key. Row order
// matters, since it is visible to the model, and so does the filename.
func ContextKey(provider, model, filename string, table *domain.Table) string {
	h := sha256.New()
	for _, part := range []string{PromptVersion, provider, model, filename} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	if table != nil {
		for _, r := range table.Records {
			fmt.Fprintf(h, "%s\x1f%s\x1f%s\x1f%d\n", r.Person, r.Project, r.Date.Format(domain.DateLayout), int64(r.Hours))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// DefaultMemoryEntries bounds a MemoryCache built with a non-positive size.
const DefaultMemoryEntries = 128

// MemoryCache is a bounded in-process Cache. The least recently used entry
// is evicted first; reads and writes both count as use.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	entries map[string]domain.NarrativeReport
	order   []string
}

// NewMemoryCache returns a cache holding at most max entries.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = DefaultMemoryEntries
	}
	return &MemoryCache{max: max, entries: make(map[string]domain.NarrativeReport)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.NarrativeReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	c.touch(key)
	return &r, true, nil
}

func (c *MemoryCache) Put(_ context.Context, key string, report *domain.NarrativeReport) error {
	if report == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.touch(key)
	} else {
		c.order = append(c.order, key)
	}
	c.entries[key] = *report
	for len(c.order) > c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
	return nil
}

// touch moves key to the most recently used end. The caller holds mu.
func (c *MemoryCache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
}

// Len returns the number of cached narratives.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
