package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LiquidityPosition tracks one provider's share of a market's liquidity pool.
type LiquidityPosition struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MarketID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_liquidity_positions_market_provider" json:"market_id"`
	Provider       string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_liquidity_positions_market_provider" json:"provider"`
	Shares         uint64    `gorm:"type:numeric(20,0);not null;default:0" json:"shares"`
	TotalDeposited uint64    `gorm:"type:numeric(20,0);not null;default:0" json:"total_deposited"`
	TotalWithdrawn uint64    `gorm:"type:numeric(20,0);not null;default:0" json:"total_withdrawn"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for LiquidityPosition model
func (*LiquidityPosition) TableName() string {
	return "liquidity_positions"
}

// BeforeCreate sets up the model before creation
func (lp *LiquidityPosition) BeforeCreate(_ *gorm.DB) error {
	if lp.ID == uuid.Nil {
		lp.ID = uuid.New()
	}
	return nil
}

// CanRedeem checks the provider holds at least shares.
func (lp *LiquidityPosition) CanRedeem(shares uint64) error {
	if shares == 0 {
		return ErrInvalidAmount
	}
	if shares > lp.Shares {
		return ErrInsufficientShares
	}
	return nil
}

// IsDormant reports whether every share has been withdrawn.
func (lp *LiquidityPosition) IsDormant() bool {
	return lp.Shares == 0 && lp.TotalDeposited > 0
}
