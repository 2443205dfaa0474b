package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"campuseats/models"
)

// ErrNotReady is returned by Cache.Snapshot before the first successful load.
var ErrNotReady = errors.New("catalog not loaded yet")

// Source provides canteens and their menus.
type Source interface {
	ListCanteens(ctx context.Context) ([]models.Canteen, error)
	ListMenuItems(ctx context.Context, canteenID string) ([]models.MenuItem, error)
}

// Snapshot is an immutable view of the catalog at one point in time.
type Snapshot struct {
	Canteens    []models.Canteen
	Items       []models.MenuItem
	RefreshedAt time.Time
}

// Item finds a menu item by id.
func (s Snapshot) Item(id string) (models.MenuItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return models.MenuItem{}, false
}

// Categories returns the distinct non-empty item categories, sorted.
func (s Snapshot) Categories() []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, it := range s.Items {
		if it.Category == "" || seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	slices.Sort(out)
	return out
}

// Cache holds the latest catalog snapshot.
type Cache struct {
	mu     sync.RWMutex
	snap   Snapshot
	loaded bool
}

func NewCache() *Cache {
	return &Cache{}
}

// Replace swaps in a new snapshot. Callers must not modify the slices afterwards.
func (c *Cache) Replace(canteens []models.Canteen, items []models.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = Snapshot{Canteens: canteens, Items: items, RefreshedAt: time.Now()}
	c.loaded = true
}

// Snapshot returns the current snapshot. The returned slices are shared and must be
// treated as read-only.
func (c *Cache) Snapshot() (Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return Snapshot{}, ErrNotReady
	}
	return c.snap, nil
}
