package prediction

import (
	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// MinimumBet is the larger of the configured floor and the pool-scaled floor.
func MinimumBet(m *models.Market, cfg *Config) (uint64, error) {
	liquidity, err := mathx.Add(m.ReserveA, m.ReserveB)
	if err != nil {
		return 0, err
	}
	dynamic, err := mathx.Div(liquidity, cfg.LiquidityMinBetDivisor)
	if err != nil {
		return 0, err
	}
	return max(cfg.MinBetAmount, dynamic), nil
}

// CheckBetLimits validates amount against the market's current bounds and
// returns the minimum it checked against.
func CheckBetLimits(amount uint64, m *models.Market, cfg *Config) (uint64, error) {
	if amount == 0 {
		return 0, models.ErrInvalidAmount
	}
	minimum, err := MinimumBet(m, cfg)
	if err != nil {
		return 0, err
	}
	if amount < minimum {
		return minimum, models.ErrBetTooSmall
	}
	if cfg.MaxBetAmount > 0 && amount > cfg.MaxBetAmount {
		return minimum, models.ErrBetTooLarge
	}
	return minimum, nil
}
