package liquidity

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/deps"
)

const ServiceKey = "liquidity_service"

// Init builds the liquidity service and registers it
func Init(container *deps.Container, config *Config) (Service, error) {
	if config == nil {
		config = GetDefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	srv := NewService(Dependencies{
		DB:     container.DB,
		Store:  container.Store,
		Ledger: ledger.FromContainer(container),
		Signer: container.Signer,
		Gate:   container.Gate,
		Clock:  container.Clock,
		Events: container.Events,
		Logger: container.Logger,
	}, config)

	container.RegisterService(ServiceKey, srv)
	return srv, nil
}

// MountAuthenticated mounts the pool routes under /markets/:id
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := NewHandler(container.GetService(ServiceKey).(Service))

	pool := r.Group("/markets/:id/liquidity")
	pool.GET("", handler.GetMyLiquidity)
	pool.POST("", handler.AddLiquidity)
	pool.POST("/remove", handler.RemoveLiquidity)
	pool.POST("/redeem", handler.RedeemLiquidity)
}
