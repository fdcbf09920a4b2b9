package prediction

import "github.com/joefazee/settle/models"

// Config represents the configuration for the betting module
type Config struct {
	MinBetAmount           uint64 `env:"MIN_BET_AMOUNT" env-default:"1"`
	// MaxBetAmount of zero leaves bets uncapped
	MaxBetAmount           uint64 `env:"MAX_BET_AMOUNT" env-default:"0"`
	// LiquidityMinBetDivisor raises the minimum bet on deep pools to
	// (ReserveA+ReserveB)/divisor
	LiquidityMinBetDivisor uint64 `env:"LIQUIDITY_MIN_BET_DIVISOR" env-default:"1000"`
}

func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.MinBetAmount > 0, models.ErrInvalidBetAmountLimits},
		{c.MaxBetAmount == 0 || c.MaxBetAmount >= c.MinBetAmount, models.ErrInvalidBetAmountLimits},
		{c.LiquidityMinBetDivisor > 0, models.ErrInvalidMinBetDivisor},
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
		MinBetAmount:           1,
		MaxBetAmount:           0,
		LiquidityMinBetDivisor: 1000,
	}
}
