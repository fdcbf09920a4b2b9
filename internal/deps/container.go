package deps

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/sanitizer"
	"github.com/joefazee/settle/internal/security"
	"github.com/joefazee/settle/internal/store"
)

// Container holds all shared dependencies
type Container struct {
	DB         *gorm.DB
	Redis      *redis.Client
	TokenMaker security.Maker
	Sanitizer  sanitizer.HTMLStripperer
	Logger     logger.Logger
	Clock      clock.Clock
	Store      store.Store
	Signer     *authority.Signer
	Events     *events.Bus
	Gate       gate.Gate

	// CacheBackend selects the implementation of module read caches
	CacheBackend string

	// Store services as interfaces to avoid imports
	services map[string]interface{}
}

func NewContainer(db *gorm.DB, tokenMaker security.Maker, log logger.Logger) *Container {
	return &Container{
		DB:         db,
		TokenMaker: tokenMaker,
		Sanitizer:  sanitizer.NewHTMLStripper(),
		Logger:     log,
		Clock:      clock.System(),
		Store:      store.New(db),
		Events:     events.NewBus(),
		Gate:       gate.Open{},
		services:   make(map[string]interface{}),
	}
}

// RegisterService stores a service with a key
func (c *Container) RegisterService(key string, service interface{}) {
	c.services[key] = service
}

// GetService retrieves a service by key
func (c *Container) GetService(key string) interface{} {
	return c.services[key]
}
