package prediction

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/deps"
)

const ServiceKey = "prediction_service"

// Init builds the betting service and registers it
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
		Gate:   container.Gate,
		Clock:  container.Clock,
		Events: container.Events,
		Logger: container.Logger,
	}, config)

	container.RegisterService(ServiceKey, srv)
	return srv, nil
}

// MountAuthenticated mounts the betting routes under /markets/:id
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := NewHandler(container.GetService(ServiceKey).(Service))

	market := r.Group("/markets/:id")
	market.POST("/bets", handler.PlaceBet)
	market.GET("/position", handler.GetMyPosition)
	market.GET("/positions", handler.ListPositions)
}
