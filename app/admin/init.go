package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/internal/deps"
)

const ServiceKey = "admin_service"

// Init builds the admin service and registers it
func Init(container *deps.Container) Service {
	srv := NewService(container.Gate, container.Clock, container.Logger)
	container.RegisterService(ServiceKey, srv)
	return srv
}

// MountAdmin mounts the pause switch; the group must already require the admin role
func MountAdmin(r *gin.RouterGroup, container *deps.Container) {
	handler := NewHandler(container.GetService(ServiceKey).(Service))

	r.GET("/admin/status", handler.GetStatus)
	r.POST("/admin/pause", handler.Pause)
	r.POST("/admin/resume", handler.Resume)
}
