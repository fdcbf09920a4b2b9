package markets

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for market lifecycle operations
type Service interface {
	CreateMarket(ctx context.Context, caller string, req *CreateMarketRequest) (*MarketResponse, error)
	GetMarket(ctx context.Context, id uuid.UUID) (*MarketDetailResponse, error)
	// CancelMarket is allowed for any caller when admin is set. The market
	// authority may cancel only while nobody has staked or provided
	// liquidity and the deadline has not passed.
	CancelMarket(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error)
	// DisputeMarket is allowed for the oracle and admins. The market
	// authority is held to the same window as CancelMarket.
	DisputeMarket(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error)
}
