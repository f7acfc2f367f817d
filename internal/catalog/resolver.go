package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/cartapi/internal/domain"
)

const prefetchInterval = 10 * time.Minute

// Resolver resolves product IDs to records, caching what the catalog
// last returned. Fetches are not cancelled; instead each fetch is tagged
// with a generation, and a response that arrives after a newer fetch has
// started is discarded so stale data never overwrites fresher data.
type Resolver struct {
	client *Client
	logger *zap.Logger

	mu      sync.Mutex
	started uint64
	cache   map[int64]domain.Product
}

// NewResolver creates a resolver around the given catalog client.
func NewResolver(client *Client, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		client: client,
		logger: logger,
		cache:  make(map[int64]domain.Product),
	}
}

// Resolve returns records for as many of the requested IDs as are known,
// refreshing the cache from the catalog first. Unknown IDs are simply
// absent from the result; a failed fetch degrades to whatever the cache
// already holds. Never returns nil.
func (r *Resolver) Resolve(ctx context.Context, ids []int64) map[int64]domain.Product {
	if len(ids) == 0 {
		return map[int64]domain.Product{}
	}

	if err := r.refresh(ctx); err != nil {
		r.logger.Warn("Catalog refresh failed, resolving from cache", zap.Error(err))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	resolved := make(map[int64]domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.cache[id]; ok {
			resolved[id] = p
		}
	}
	return resolved
}

// refresh fetches the catalog listing and applies it unless a newer
// fetch started while this one was in flight.
func (r *Resolver) refresh(ctx context.Context) error {
	r.mu.Lock()
	r.started++
	gen := r.started
	r.mu.Unlock()

	products, err := r.client.ListProducts(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.started {
		r.logger.Debug("Discarding stale catalog response",
			zap.Uint64("generation", gen),
			zap.Uint64("current", r.started))
		return nil
	}

	for _, p := range products {
		r.cache[p.ID] = p
	}
	return nil
}

// RunPrefetchLoop warms the product cache once, then every
// prefetchInterval, so summaries stay fresh without a fetch on every
// read. Call from a goroutine.
func (r *Resolver) RunPrefetchLoop(ctx context.Context) {
	if err := r.refresh(ctx); err != nil {
		r.logger.Warn("Catalog prefetch failed", zap.Error(err))
	}

	ticker := time.NewTicker(prefetchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				r.logger.Warn("Catalog prefetch failed", zap.Error(err))
			}
		}
	}
}
