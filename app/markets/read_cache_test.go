package markets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/settle/internal/cache"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/logger"
)

func TestReadCache(t *testing.T) {
	ctx := context.Background()

	t.Run("ConcurrentMissesShareOneLoad", func(t *testing.T) {
		rc := newReadCache(cache.NewMemoryCache[MarketDetailResponse](0), time.Minute, logger.NewNullLogger())
		id := uuid.New()

		var loads int32
		release := make(chan struct{})
		load := func(context.Context) (*MarketDetailResponse, error) {
			atomic.AddInt32(&loads, 1)
			<-release
			return &MarketDetailResponse{MarketResponse: MarketResponse{ID: id, StakeA: 7}}, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				detail, err := rc.get(ctx, id, load)
				assert.NoError(t, err)
				assert.Equal(t, uint64(7), detail.StakeA)
			}()
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(8))
		assert.GreaterOrEqual(t, atomic.LoadInt32(&loads), int32(1))

		// Served from cache now.
		_, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) {
			t.Fatal("unexpected load")
			return nil, nil
		})
		require.NoError(t, err)
	})

	t.Run("LoadErrorsAreNotCached", func(t *testing.T) {
		rc := newReadCache(cache.NewMemoryCache[MarketDetailResponse](0), time.Minute, logger.NewNullLogger())
		id := uuid.New()
		boom := errors.New("boom")

		_, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)

		detail, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) {
			return &MarketDetailResponse{MarketResponse: MarketResponse{ID: id}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, id, detail.ID)
	})

	t.Run("InvalidationDuringLoadSkipsFill", func(t *testing.T) {
		rc := newReadCache(cache.NewMemoryCache[MarketDetailResponse](0), time.Minute, logger.NewNullLogger())
		id := uuid.New()

		// The write commits and its event lands while the read is in flight.
		stale, err := rc.get(ctx, id, func(ctx context.Context) (*MarketDetailResponse, error) {
			rc.Invalidator().Emit(ctx, events.Event{Kind: events.BetPlaced, MarketID: id})
			return &MarketDetailResponse{MarketResponse: MarketResponse{ID: id, StakeA: 1}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stale.StakeA)

		var loads int32
		fresh, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) {
			atomic.AddInt32(&loads, 1)
			return &MarketDetailResponse{MarketResponse: MarketResponse{ID: id, StakeA: 2}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), fresh.StakeA)
		assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

		cached, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) {
			t.Fatal("unexpected load")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(2), cached.StakeA)
	})

	t.Run("InvalidatorDropsEntry", func(t *testing.T) {
		s := miniredis.RunT(t)
		client := cache.NewRedisClient(&cache.RedisOptions{Addr: s.Addr(), PoolSize: 2})
		t.Cleanup(func() { _ = client.Close() })

		rc := newReadCache(cache.NewRedisCache[MarketDetailResponse](client, "settle", 0), time.Minute, logger.NewNullLogger())
		id := uuid.New()

		_, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) {
			return &MarketDetailResponse{MarketResponse: MarketResponse{ID: id}, StakeVaultBalance: 9}, nil
		})
		require.NoError(t, err)
		assert.True(t, s.Exists("settle:"+cacheKey(id)))

		rc.Invalidator().Emit(ctx, events.Event{Kind: events.BetPlaced, MarketID: id})
		assert.False(t, s.Exists("settle:"+cacheKey(id)))
	})

	t.Run("BackendFailuresAreLogged", func(t *testing.T) {
		store := new(cache.MockCache[MarketDetailResponse])
		down := errors.New("connection refused")
		store.On("Get", mock.Anything, mock.Anything).Return(nil, down)
		store.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return(down)

		log := logger.NewMemory()
		rc := newReadCache(store, time.Minute, log)

		id := uuid.New()
		detail, err := rc.get(ctx, id, func(context.Context) (*MarketDetailResponse, error) {
			return &MarketDetailResponse{MarketResponse: MarketResponse{ID: id}}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, id, detail.ID)
		assert.Len(t, log.ByLevel(logger.LevelError), 2)
		store.AssertExpectations(t)
	})
}
