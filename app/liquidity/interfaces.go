package liquidity

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the liquidity pool operations of one provider
type Service interface {
	AddLiquidity(ctx context.Context, marketID uuid.UUID, provider string, req *AddLiquidityRequest) (*DepositResponse, error)
	// RemoveLiquidity burns shares of an active market and charges the
	// withdrawal fee.
	RemoveLiquidity(ctx context.Context, marketID uuid.UUID, provider string, req *WithdrawLiquidityRequest) (*WithdrawalResponse, error)
	// RedeemLiquidity burns shares of a resolved or cancelled market without
	// a fee.
	RedeemLiquidity(ctx context.Context, marketID uuid.UUID, provider string, req *WithdrawLiquidityRequest) (*WithdrawalResponse, error)
	GetLiquidityPosition(ctx context.Context, marketID uuid.UUID, provider string) (*PositionResponse, error)
}
