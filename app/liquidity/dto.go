package liquidity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/settle/models"
)

// AddLiquidityRequest represents a deposit into a market pool
type AddLiquidityRequest struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

// WithdrawLiquidityRequest represents burning pool shares
type WithdrawLiquidityRequest struct {
	Shares uint64 `json:"shares" validate:"required,gt=0"`
}

// DepositResponse reports how a deposit was split and priced
type DepositResponse struct {
	MarketID     uuid.UUID `json:"market_id"`
	Provider     string    `json:"provider"`
	Amount       uint64    `json:"amount"`
	AmountA      uint64    `json:"amount_a"`
	AmountB      uint64    `json:"amount_b"`
	SharesMinted uint64    `json:"shares_minted"`
	Shares       uint64    `json:"shares"`
	LPSupply     uint64    `json:"lp_supply"`
}

// WithdrawalResponse reports the value paid out for burned shares
type WithdrawalResponse struct {
	MarketID     uuid.UUID `json:"market_id"`
	Provider     string    `json:"provider"`
	SharesBurned uint64    `json:"shares_burned"`
	Gross        uint64    `json:"gross"`
	Fee          uint64    `json:"fee"`
	Net          uint64    `json:"net"`
	Shares       uint64    `json:"shares"`
	LPSupply     uint64    `json:"lp_supply"`
}

// PositionResponse is a provider's stake in a pool
type PositionResponse struct {
	MarketID       uuid.UUID `json:"market_id"`
	Provider       string    `json:"provider"`
	Shares         uint64    `json:"shares"`
	TotalDeposited uint64    `json:"total_deposited"`
	TotalWithdrawn uint64    `json:"total_withdrawn"`
	// Value is what the shares would redeem for without a fee right now
	Value          uint64    `json:"value"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToPositionResponse converts a liquidity position to its response
func ToPositionResponse(lp *models.LiquidityPosition, value uint64) *PositionResponse {
	return &PositionResponse{
		MarketID:       lp.MarketID,
		Provider:       lp.Provider,
		Shares:         lp.Shares,
		TotalDeposited: lp.TotalDeposited,
		TotalWithdrawn: lp.TotalWithdrawn,
		Value:          value,
		UpdatedAt:      lp.UpdatedAt,
	}
}
