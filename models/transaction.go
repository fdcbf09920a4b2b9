package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferReason labels why value moved between accounts
type TransferReason string

const (
	TransferReasonCredit              TransferReason = "credit"
	TransferReasonBet                 TransferReason = "bet"
	TransferReasonLiquidityDeposit    TransferReason = "liquidity_deposit"
	TransferReasonLiquidityWithdrawal TransferReason = "liquidity_withdrawal"
	TransferReasonOracleFee           TransferReason = "oracle_fee"
	TransferReasonPlatformFee         TransferReason = "platform_fee"
	TransferReasonPayout              TransferReason = "payout"
	TransferReasonRefund              TransferReason = "refund"
)

// Transfer is an immutable ledger entry
type Transfer struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	FromAccount string         `gorm:"type:varchar(128);index" json:"from_account,omitempty"`
	ToAccount   string         `gorm:"type:varchar(128);not null;index" json:"to_account"`
	Amount      uint64         `gorm:"type:numeric(20,0);not null" json:"amount"`
	Reason      TransferReason `gorm:"type:varchar(32);not null" json:"reason"`
	MarketID    *uuid.UUID     `gorm:"type:uuid;index" json:"market_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TableName specifies the table name for Transfer model
func (*Transfer) TableName() string {
	return "transfers"
}

// BeforeCreate sets up the model before creation
func (t *Transfer) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Validate checks the entry before it is written
func (t *Transfer) Validate() error {
	if t.Amount == 0 {
		return ErrInvalidAmount
	}
	if t.ToAccount == "" || t.FromAccount == t.ToAccount {
		return ErrInvalidAccountID
	}
	return nil
}

// AllModels lists every table the engine owns, in creation order.
func AllModels() []interface{} {
	return []interface{}{
		&Account{},
		&Transfer{},
		&Market{},
		&Position{},
		&LiquidityPosition{},
	}
}
