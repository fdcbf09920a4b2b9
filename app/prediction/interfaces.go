package prediction

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for betting operations
type Service interface {
	PlaceBet(ctx context.Context, marketID uuid.UUID, bettor string, req *PlaceBetRequest) (*BetResponse, error)
	GetPosition(ctx context.Context, marketID uuid.UUID, owner string) (*PositionResponse, error)
	// ListPositions returns every position of a market, oldest first.
	ListPositions(ctx context.Context, marketID uuid.UUID) ([]PositionResponse, error)
}
