package payout

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/deps"
)

const ServiceKey = "payout_service"

// Init builds the payout service and registers it
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

// MountAuthenticated mounts the claim routes
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := NewHandler(container.GetService(ServiceKey).(Service))

	r.POST("/markets/:id/claim", handler.ClaimWinnings)
	r.POST("/markets/:id/refund", handler.ClaimRefund)
}
