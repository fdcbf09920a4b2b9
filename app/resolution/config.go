package resolution

import (
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/models"
)

// Config represents the configuration for the resolution module
type Config struct {
	// PlatformFeeAccount receives the platform share of every resolved pool
	PlatformFeeAccount string `env:"RESOLUTION_PLATFORM_FEE_ACCOUNT" env-default:"treasury"`
	MaxEvidenceBytes   int    `env:"RESOLUTION_MAX_EVIDENCE_BYTES" env-default:"256"`
}

// Validate validates the resolution configuration
func (c *Config) Validate() error {
	type validation struct {
		ok  bool
		err error
	}

	checks := []validation{
		{c.PlatformFeeAccount != "" && !authority.IsVaultAccount(c.PlatformFeeAccount), models.ErrInvalidTreasuryAccount},
		{c.MaxEvidenceBytes > 0 && c.MaxEvidenceBytes <= models.MaxOracleDataBytes, models.ErrInvalidEvidenceLimit},
	}

	for _, v := range checks {
		if !v.ok {
			return v.err
		}
	}
	return nil
}

// GetDefaultConfig returns the default resolution configuration
func GetDefaultConfig() *Config {
	return &Config{
		PlatformFeeAccount: "treasury",
		MaxEvidenceBytes:   models.MaxOracleDataBytes,
	}
}
