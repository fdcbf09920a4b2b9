package ledger

import "github.com/joefazee/settle/models"

// Config represents the configuration for the ledger module
type Config struct {
	TreasuryAccount string `env:"LEDGER_TREASURY_ACCOUNT" env-default:"treasury"`
	MaxCreditAmount uint64 `env:"LEDGER_MAX_CREDIT_AMOUNT" env-default:"1000000000000"`
	HistoryPageSize int    `env:"LEDGER_HISTORY_PAGE_SIZE" env-default:"20"`
}

func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.TreasuryAccount != "", models.ErrInvalidTreasuryAccount},
		{c.MaxCreditAmount > 0, models.ErrInvalidCreditLimit},
		{c.HistoryPageSize > 0 && c.HistoryPageSize <= 100, models.ErrInvalidPageSize},
	}

	for _, v := range checks {
		if !v.ok {
			return v.err
		}
	}
	return nil
}

// GetDefaultConfig returns the default ledger configuration
func GetDefaultConfig() *Config {
	return &Config{
		TreasuryAccount: "treasury",
		MaxCreditAmount: 1_000_000_000_000,
		HistoryPageSize: 20,
	}
}
