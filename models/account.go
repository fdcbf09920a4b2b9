package models

import (
	"math"
	"time"

	"github.com/joefazee/settle/internal/mathx"
)

// AccountKind separates participant balances from engine-held vaults
type AccountKind string

const (
	AccountKindHolder   AccountKind = "holder"
	AccountKindVault    AccountKind = "vault"
	AccountKindTreasury AccountKind = "treasury"
)

// MaxBalance is the largest balance an account may hold. database/sql only
// binds uint64 arguments below 2^63, so every driver shares this ceiling.
const MaxBalance uint64 = math.MaxInt64

// Account holds the spendable balance of one identity or vault
type Account struct {
	ID        string      `gorm:"type:varchar(128);primaryKey" json:"id"`
	Kind      AccountKind `gorm:"type:varchar(20);not null;default:'holder'" json:"kind"`
	Balance   uint64      `gorm:"type:numeric(20,0);not null;default:0" json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Account model
func (*Account) TableName() string {
	return "accounts"
}

// IsVault reports whether debits require a derived authority grant.
func (a *Account) IsVault() bool {
	return a.Kind == AccountKindVault
}

// CanDebit checks if the account can cover amount
func (a *Account) CanDebit(amount uint64) bool {
	return a.Balance >= amount
}

// Debit removes amount from the balance
func (a *Account) Debit(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	if !a.CanDebit(amount) {
		return ErrInsufficientBalance
	}
	a.Balance -= amount
	return nil
}

// Credit adds amount to the balance
func (a *Account) Credit(amount uint64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}
	next, err := mathx.Add(a.Balance, amount)
	if err != nil {
		return err
	}
	if next > MaxBalance {
		return mathx.ErrOverflow
	}
	a.Balance = next
	return nil
}
