package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joefazee/settle/models"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, GetDefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		err    error
	}{
		{"EmptyFeeAccount", func(c *Config) { c.PlatformFeeAccount = "" }, models.ErrInvalidTreasuryAccount},
		{"VaultFeeAccount", func(c *Config) { c.PlatformFeeAccount = "vault:abc" }, models.ErrInvalidTreasuryAccount},
		{"ZeroEvidence", func(c *Config) { c.MaxEvidenceBytes = 0 }, models.ErrInvalidEvidenceLimit},
		{"OversizedEvidence", func(c *Config) { c.MaxEvidenceBytes = 257 }, models.ErrInvalidEvidenceLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}
