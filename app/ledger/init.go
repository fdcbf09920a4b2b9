package ledger

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/internal/deps"
)

const (
	LedgerKey  = "ledger"
	ServiceKey = "ledger_service"
)

// MountAuthenticated mounts the caller's account routes
func MountAuthenticated(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	accounts := r.Group("/accounts")
	accounts.GET("/me", handler.GetMyAccount)
	accounts.GET("/me/transfers", handler.GetMyTransfers)
}

// MountAdmin mounts funding routes; the group must already require the admin role
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := createHandler(container)

	r.POST("/accounts/credit", handler.Credit)
}

// Init builds the ledger and its service and registers both
func Init(container *deps.Container, config *Config) Ledger {
	l := New(container.DB, container.Signer, config)
	container.RegisterService(LedgerKey, l)
	container.RegisterService(ServiceKey, NewService(l, config, container.Logger))
	return l
}

// FromContainer returns the ledger registered by Init
func FromContainer(container *deps.Container) Ledger {
	return container.GetService(LedgerKey).(Ledger)
}

func createHandler(container *deps.Container) *Handler {
	srv := container.GetService(ServiceKey).(Service)
	return NewHandler(srv)
}
