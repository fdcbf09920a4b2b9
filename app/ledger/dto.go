package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/settle/models"
)

// CreditRequest funds an account
type CreditRequest struct {
	AccountID string `json:"account_id" validate:"required,account_id"`
	Amount    uint64 `json:"amount" validate:"required,gt=0"`
}

// AccountResponse represents an account balance
type AccountResponse struct {
	ID        string             `json:"id"`
	Kind      models.AccountKind `json:"kind"`
	Balance   uint64             `json:"balance"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// TransferResponse represents a ledger entry
type TransferResponse struct {
	ID          uuid.UUID             `json:"id"`
	FromAccount string                `json:"from_account,omitempty"`
	ToAccount   string                `json:"to_account"`
	Amount      uint64                `json:"amount"`
	Reason      models.TransferReason `json:"reason"`
	MarketID    *uuid.UUID            `json:"market_id,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

func ToAccountResponse(acc *models.Account) *AccountResponse {
	return &AccountResponse{
		ID:        acc.ID,
		Kind:      acc.Kind,
		Balance:   acc.Balance,
		UpdatedAt: acc.UpdatedAt,
	}
}

func ToTransferResponse(t *models.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:          t.ID,
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		Amount:      t.Amount,
		Reason:      t.Reason,
		MarketID:    t.MarketID,
		CreatedAt:   t.CreatedAt,
	}
}
