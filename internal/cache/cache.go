// Package cache holds normalized workbooks in memory for the lifetime of a
// session, keyed by period key. It is a simple last-write-wins store; the
// source of truth stays in the blob store as raw spreadsheet bytes.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"finboard/pkg/contracts/domain"
)

// WorkbookCache is a concurrency-safe period-key → SheetData store.
// Concurrent loads of the same not-yet-cached period are deduplicated, so a
// burst of requests for a new month triggers one fetch/normalize.
type WorkbookCache struct {
	mu       sync.RWMutex
	byPeriod map[string]domain.SheetData
	group    singleflight.Group
}

// New creates an empty cache.
func New() *WorkbookCache {
	return &WorkbookCache{byPeriod: make(map[string]domain.SheetData)}
}

// Get returns the cached workbook for the period key, if present.
func (c *WorkbookCache) Get(key string) (domain.SheetData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sd, ok := c.byPeriod[key]
	return sd, ok
}

// Set stores a workbook under the period key. Last write wins; normalization
// is pure, so overwriting a concurrent duplicate is harmless.
func (c *WorkbookCache) Set(key string, sd domain.SheetData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byPeriod[key] = sd
}

// GetOrLoad returns the cached workbook or invokes load to produce it,
// collapsing concurrent loads of the same key into one call. The loaded
// workbook is cached before returning.
func (c *WorkbookCache) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (domain.SheetData, error)) (domain.SheetData, error) {
	if sd, ok := c.Get(key); ok {
		return sd, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: another caller may have stored it
		// between our miss and this execution.
		if sd, ok := c.Get(key); ok {
			return sd, nil
		}
		sd, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.Set(key, sd)
		return sd, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.SheetData), nil
}

// Delete evicts one period.
func (c *WorkbookCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byPeriod, key)
}

// Clear evicts everything. Called on logout.
func (c *WorkbookCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byPeriod = make(map[string]domain.SheetData)
}

// Len returns the number of cached periods.
func (c *WorkbookCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPeriod)
}
