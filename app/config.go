package app

import (
	"time"

	"github.com/joefazee/settle/app/database"
	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/app/liquidity"
	"github.com/joefazee/settle/app/markets"
	"github.com/joefazee/settle/app/payout"
	"github.com/joefazee/settle/app/prediction"
	"github.com/joefazee/settle/app/resolution"
	"github.com/joefazee/settle/internal/nexus"
)

// CacheConfig selects where shared flags, read caches and the event stream live
type CacheConfig struct {
	Backend       string `env:"CACHE_BACKEND" env-default:"memory" validate:"oneof=memory redis"`
	RedisAddr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`
	// EventStream is the redis stream engine events are appended to; empty disables it
	EventStream   string `env:"EVENT_STREAM" env-default:"settle:events"`
	StartPaused   bool   `env:"GATE_START_PAUSED" env-default:"false"`
}

// AuthConfig holds the token and vault signing keys
type AuthConfig struct {
	SymmetricKey string        `env:"AUTH_SYMMETRIC_KEY" validate:"required,len=32"`
	TokenTTL     time.Duration `env:"AUTH_TOKEN_TTL" env-default:"24h"`
	AuthorityKey string        `env:"ENGINE_AUTHORITY_KEY" validate:"required,min=32,max=64"`
}

type Config struct {
	DB    database.Config
	Cache CacheConfig
	Auth  AuthConfig

	Markets    markets.Config
	Liquidity  liquidity.Config
	Prediction prediction.Config
	Resolution resolution.Config
	Payout     payout.Config
	Ledger     ledger.Config

	AppHost   string  `env:"APP_HOST" env-default:"localhost"`
	AppPort   string  `env:"APP_PORT" env-default:"8080"`
	Env       string  `env:"APP_ENV" env-default:"development"`
	LogLevel  string  `env:"LOG_LEVEL" env-default:"info"`
	RateLimit float64 `env:"RATE_LIMIT_RPS" env-default:"20"`
	RateBurst int     `env:"RATE_LIMIT_BURST" env-default:"40"`
}

// Validate runs the checks every module config carries
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		&c.Markets, &c.Liquidity, &c.Prediction, &c.Resolution, &c.Payout, &c.Ledger,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads the application configuration from environment variables or a config file.
func LoadConfig(envFiles ...string) (*Config, error) {
	c := &Config{}
	if err := nexus.NewLoader(nexus.WithEnvFiles(envFiles...)).Load(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
