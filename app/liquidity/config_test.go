package liquidity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joefazee/settle/models"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, GetDefaultConfig().Validate())

	cfg := GetDefaultConfig()
	cfg.MinDepositAmount = 0
	assert.ErrorIs(t, cfg.Validate(), models.ErrInvalidDepositLimits)

	cfg = GetDefaultConfig()
	cfg.MaxDepositAmount = 0
	assert.ErrorIs(t, cfg.Validate(), models.ErrInvalidDepositLimits)
}
