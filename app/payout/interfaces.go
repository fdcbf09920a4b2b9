package payout

import (
	"context"

	"github.com/google/uuid"
)

// Service pays out settled positions. Each position is paid at most once.
type Service interface {
	ClaimWinnings(ctx context.Context, marketID uuid.UUID, claimant string) (*ClaimResponse, error)
	// ClaimRefund returns the full stake of a position on a cancelled market.
	ClaimRefund(ctx context.Context, marketID uuid.UUID, claimant string) (*ClaimResponse, error)
}
