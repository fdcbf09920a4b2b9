package payout

// Config represents the configuration for the payout module
type Config struct {
	// StrictInvariants panics on a payout that the vault or pool cannot
	// cover instead of only logging it. Meant for tests and staging.
	StrictInvariants bool `env:"PAYOUT_STRICT_INVARIANTS" env-default:"false"`
}

// Validate validates the payout configuration
func (c *Config) Validate() error {
	return nil
}

// GetDefaultConfig returns the default payout configuration
func GetDefaultConfig() *Config {
	return &Config{}
}
