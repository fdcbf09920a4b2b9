package markets

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/cache"
	"github.com/joefazee/settle/internal/deps"
)

const ServiceKey = "markets_service"

// Init builds the market service, subscribes its cache invalidator to the
// event bus and registers the service
func Init(container *deps.Container, config *Config) (Service, error) {
	if config == nil {
		config = GetDefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := cache.New[MarketDetailResponse](container.CacheBackend, container.Redis, "settle")
	if err != nil {
		return nil, err
	}
	rc := newReadCache(store, config.ReadCacheTTL, container.Logger)
	container.Events.Subscribe(rc.Invalidator())

	srv := NewService(Dependencies{
		DB:        container.DB,
		Store:     container.Store,
		Ledger:    ledger.FromContainer(container),
		Gate:      container.Gate,
		Clock:     container.Clock,
		Sanitizer: container.Sanitizer,
		Events:    container.Events,
		Logger:    container.Logger,
	}, config, rc)

	container.RegisterService(ServiceKey, srv)
	return srv, nil
}

// MountAuthenticated mounts the market routes
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := NewHandler(container.GetService(ServiceKey).(Service))

	marketsGroup := r.Group("/markets")
	marketsGroup.POST("", handler.CreateMarket)
	marketsGroup.GET("/:id", handler.GetMarket)
	marketsGroup.POST("/:id/cancel", handler.CancelMarket)
	marketsGroup.POST("/:id/dispute", handler.DisputeMarket)
}
