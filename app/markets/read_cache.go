package markets

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/joefazee/settle/internal/cache"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/logger"
)

const cacheKeyPrefix = "market:"

func cacheKey(id uuid.UUID) string {
	return cacheKeyPrefix + id.String()
}

// readCache fronts market detail reads. Concurrent misses for the same market
// share one load. Every invalidation bumps the market's generation, and a load
// only fills the cache if the generation it started under is still current.
type readCache struct {
	store  cache.Cache[MarketDetailResponse]
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Logger

	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

func newReadCache(store cache.Cache[MarketDetailResponse], ttl time.Duration, log logger.Logger) *readCache {
	return &readCache{store: store, ttl: ttl, logger: log, generations: make(map[uuid.UUID]uint64)}
}

func (rc *readCache) generation(id uuid.UUID) uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.generations[id]
}

func (rc *readCache) bump(id uuid.UUID) {
	rc.mu.Lock()
	rc.generations[id]++
	rc.mu.Unlock()
}

func (rc *readCache) get(ctx context.Context, id uuid.UUID, load func(context.Context) (*MarketDetailResponse, error)) (*MarketDetailResponse, error) {
	key := cacheKey(id)

	cached, err := rc.store.Get(ctx, key)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		rc.logger.Error(err, logger.Fields{"market_id": id, "op": "cache_get"})
	}

	gen := rc.generation(id)
	v, err, _ := rc.group.Do(key+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		detail, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if rc.generation(id) != gen {
			return detail, nil
		}
		if err := rc.store.Set(ctx, key, *detail, rc.ttl); err != nil {
			rc.logger.Error(err, logger.Fields{"market_id": id, "op": "cache_set"})
		}
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*MarketDetailResponse), nil
}

func (rc *readCache) invalidate(ctx context.Context, id uuid.UUID) {
	rc.bump(id)
	if err := rc.store.Delete(ctx, cacheKey(id)); err != nil {
		rc.logger.Error(err, logger.Fields{"market_id": id, "op": "cache_delete"})
	}
}

// Invalidator drops the cached detail of any market an event touches.
func (rc *readCache) Invalidator() events.Sink {
	return events.SinkFunc(func(ctx context.Context, e events.Event) {
		rc.invalidate(ctx, e.MarketID)
	})
}
