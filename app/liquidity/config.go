package liquidity

import "github.com/joefazee/settle/models"

// Config represents the configuration for the liquidity module
type Config struct {
	MinDepositAmount uint64 `env:"LIQUIDITY_MIN_DEPOSIT" env-default:"1"`
	MaxDepositAmount uint64 `env:"LIQUIDITY_MAX_DEPOSIT" env-default:"1000000000000"`
}

// Validate validates the liquidity configuration
func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.MinDepositAmount > 0, models.ErrInvalidDepositLimits},
		{c.MaxDepositAmount >= c.MinDepositAmount, models.ErrInvalidDepositLimits},
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
		MinDepositAmount: 1,
		MaxDepositAmount: 1_000_000_000_000,
	}
}
