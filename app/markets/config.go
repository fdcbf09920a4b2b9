package markets

import (
	"time"

	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// Config represents the configuration for the markets module
type Config struct {
	MinMarketDuration       time.Duration `env:"MIN_MARKET_DURATION" env-default:"1h"`
	MaxMarketDuration       time.Duration `env:"MAX_MARKET_DURATION" env-default:"8760h"`
	DefaultOracleFeeBps     uint64        `env:"DEFAULT_ORACLE_FEE_BPS" env-default:"100"`
	PlatformFeeBps          uint64        `env:"PLATFORM_FEE_BPS" env-default:"0"`
	DefaultWithdrawalFeeBps uint64        `env:"DEFAULT_WITHDRAWAL_FEE_BPS" env-default:"30"`
	ReadCacheTTL            time.Duration `env:"MARKET_READ_CACHE_TTL" env-default:"30s"`
}

// Validate validates the market configuration
func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.MinMarketDuration > 0 && c.MaxMarketDuration > c.MinMarketDuration, models.ErrInvalidMarketDuration},
		{mathx.ValidateBps(c.DefaultOracleFeeBps) == nil, models.ErrInvalidFeeRate},
		{mathx.ValidateBps(c.PlatformFeeBps) == nil, models.ErrInvalidFeeRate},
		{c.DefaultOracleFeeBps+c.PlatformFeeBps < mathx.BpsDenominator, models.ErrInvalidFeeRate},
		{mathx.ValidateBps(c.DefaultWithdrawalFeeBps) == nil, models.ErrInvalidFeeRate},
		{c.ReadCacheTTL > 0, models.ErrInvalidCacheTTL},
	}

	for _, v := range checks {
		if !v.ok {
			return v.err
		}
	}
	return nil
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		MinMarketDuration:       time.Hour,
		MaxMarketDuration:       365 * 24 * time.Hour,
		DefaultOracleFeeBps:     100, // 1%
		PlatformFeeBps:          0,
		DefaultWithdrawalFeeBps: 30, // 0.3%
		ReadCacheTTL:            30 * time.Second,
	}
}
