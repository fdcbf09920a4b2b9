package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/models"
)

// Ref describes why value moved and which market it belongs to.
type Ref struct {
	Reason   models.TransferReason
	MarketID *uuid.UUID
}

// MarketRef is a shorthand for a Ref scoped to marketID.
func MarketRef(reason models.TransferReason, marketID uuid.UUID) Ref {
	return Ref{Reason: reason, MarketID: &marketID}
}

// Ledger moves value between accounts. Every movement is recorded as an
// immutable transfer and runs inside the caller's transaction when bound
// with WithTx.
type Ledger interface {
	WithTx(tx *gorm.DB) Ledger

	Account(ctx context.Context, id string) (*models.Account, error)
	// Balance is zero for accounts that have never held value.
	Balance(ctx context.Context, id string) (uint64, error)

	// Transfer debits a holder account. Vault accounts are refused.
	Transfer(ctx context.Context, from, to string, amount uint64, ref Ref) (*models.Transfer, error)
	// Release debits the vault named by grant. A short vault fails with
	// models.ErrInsufficientVaultFunds.
	Release(ctx context.Context, grant authority.Grant, to string, amount uint64, ref Ref) (*models.Transfer, error)
	// Credit mints amount into to.
	Credit(ctx context.Context, to string, amount uint64, ref Ref) (*models.Transfer, error)

	History(ctx context.Context, accountID string, limit, offset int) ([]models.Transfer, error)
}

// Service backs the account endpoints.
type Service interface {
	GetAccount(ctx context.Context, id string) (*AccountResponse, error)
	Credit(ctx context.Context, req *CreditRequest) (*TransferResponse, error)
	History(ctx context.Context, id string, limit, offset int) ([]TransferResponse, error)
}
