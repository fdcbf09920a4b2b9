package router

import (
	"github.com/gin-gonic/gin"

	"github.com/joefazee/settle/app/api"
	"github.com/joefazee/settle/internal/deps"
)

// MountFunc represents a function that mounts routes for a module
type MountFunc func(*gin.RouterGroup, *deps.Container)

type Mounter struct {
	container *deps.Container
	prefix    string
}

func NewMounter(container *deps.Container) *Mounter {
	return &Mounter{container: container, prefix: "/api/v1"}
}

// Public routes - no authentication required
func (m *Mounter) Public(engine *gin.Engine) *RouteGroup {
	group := engine.Group(m.prefix)
	return &RouteGroup{group: group, container: m.container}
}

// Authenticated routes - requires valid token
func (m *Mounter) Authenticated(engine *gin.Engine) *RouteGroup {
	group := engine.Group(m.prefix)
	group.Use(api.Authenticate(m.container.TokenMaker))
	return &RouteGroup{group: group, container: m.container}
}

// Authorized routes - requires a valid token carrying role
func (m *Mounter) Authorized(engine *gin.Engine, role string) *RouteGroup {
	group := engine.Group(m.prefix)
	group.Use(api.Authenticate(m.container.TokenMaker), api.Can(role))
	return &RouteGroup{group: group, container: m.container}
}

type RouteGroup struct {
	group     *gin.RouterGroup
	container *deps.Container
}

// Mount provides a fluent interface for mounting modules
func (rg *RouteGroup) Mount(mountFunc MountFunc) *RouteGroup {
	mountFunc(rg.group, rg.container)
	return rg
}

// Group creates a sub-group for organizing routes
func (rg *RouteGroup) Group(path string) *RouteGroup {
	subGroup := rg.group.Group(path)
	return &RouteGroup{group: subGroup, container: rg.container}
}

// Use adds middleware to every route mounted afterwards
func (rg *RouteGroup) Use(middleware ...gin.HandlerFunc) *RouteGroup {
	rg.group.Use(middleware...)
	return rg
}
