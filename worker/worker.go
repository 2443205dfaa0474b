package worker

import (
	"context"
	"sync"
	"time"

	"campuseats/catalog"
	"campuseats/metrics"
	"campuseats/models"

	"github.com/rs/zerolog/log"
)

const (
	DefaultInterval    = 30 * time.Second
	DefaultConcurrency = 8
)

// StartCatalogRefresher loads the catalog into cache immediately and then on every
// tick until ctx is cancelled. The returned channel is closed when the worker exits.
func StartCatalogRefresher(ctx context.Context, src catalog.Source, cache *catalog.Cache, interval time.Duration, concurrency int) <-chan struct{} {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	log.Info().Dur("interval", interval).Int("concurrency", concurrency).Msg("Starting catalog refresher")

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		RefreshOnce(ctx, src, cache, concurrency)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("Catalog refresher stopped")
				return
			case <-ticker.C:
				RefreshOnce(ctx, src, cache, concurrency)
			}
		}
	}()
	return done
}

// RefreshOnce fetches every canteen's menu with at most concurrency requests in
// flight and replaces the cached snapshot. A canteen whose menu cannot be fetched
// keeps the items it had in the previous snapshot. If the canteen list fails or
// ctx is cancelled mid-refresh the previous snapshot is kept as is.
func RefreshOnce(ctx context.Context, src catalog.Source, cache *catalog.Cache, concurrency int) error {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	canteens, err := src.ListCanteens(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Catalog refresh: listing canteens failed")
		metrics.CatalogRefreshes.WithLabelValues("error").Inc()
		return err
	}

	menus := make([][]models.MenuItem, len(canteens))
	var failed int
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i, c := range canteens {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, c models.Canteen) {
			defer wg.Done()
			defer func() { <-semaphore }()

			items, err := src.ListMenuItems(ctx, c.ID)
			if err != nil {
				log.Warn().Err(err).Str("canteen_id", c.ID).Msg("Catalog refresh: menu fetch failed, skipping canteen")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			if items == nil {
				items = []models.MenuItem{}
			}
			menus[i] = items
		}(i, c)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Msg("Catalog refresh interrupted, keeping previous snapshot")
		metrics.CatalogRefreshes.WithLabelValues("error").Inc()
		return err
	}

	var previous map[string][]models.MenuItem
	if failed > 0 {
		previous = previousMenus(cache)
	}

	var items []models.MenuItem
	for i, m := range menus {
		if m == nil {
			m = previous[canteens[i].ID]
		}
		items = append(items, m...)
	}
	if items == nil {
		items = []models.MenuItem{}
	}

	cache.Replace(canteens, items)
	metrics.CatalogItems.Set(float64(len(items)))

	result := "ok"
	if failed > 0 {
		result = "partial"
	}
	metrics.CatalogRefreshes.WithLabelValues(result).Inc()
	log.Debug().Int("canteens", len(canteens)).Int("items", len(items)).Int("failed", failed).Msg("Catalog refreshed")
	return nil
}

// previousMenus groups the cached items by canteen.
func previousMenus(cache *catalog.Cache) map[string][]models.MenuItem {
	snap, err := cache.Snapshot()
	if err != nil {
		return nil
	}
	out := make(map[string][]models.MenuItem)
	for _, it := range snap.Items {
		out[it.CanteenID] = append(out[it.CanteenID], it)
	}
	return out
}
