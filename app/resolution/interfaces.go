package resolution

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the interface for market resolution
type Service interface {
	// Resolve settles an expired market on the oracle's outcome and pays the
	// oracle and platform fees out of the stake vault.
	Resolve(ctx context.Context, marketID uuid.UUID, caller string, req *ResolveRequest) (*ResolutionResponse, error)
}
