// Package store is the keyed record store behind the settlement engine.
// Markets are keyed by id, positions by (market id, owner).
package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/models"
)

// Store reads and writes engine records. Create fails with a conflict error
// when the key already exists; Get fails with a not-found error.
type Store interface {
	WithTx(tx *gorm.DB) Store

	GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error)
	// LockMarket reads the market and holds a row lock until the surrounding
	// transaction ends.
	LockMarket(ctx context.Context, id uuid.UUID) (*models.Market, error)
	CreateMarket(ctx context.Context, market *models.Market) error
	SaveMarket(ctx context.Context, market *models.Market) error

	GetPosition(ctx context.Context, marketID uuid.UUID, owner string) (*models.Position, error)
	CreatePosition(ctx context.Context, position *models.Position) error
	SavePosition(ctx context.Context, position *models.Position) error
	ListPositions(ctx context.Context, marketID uuid.UUID) ([]models.Position, error)

	GetLiquidityPosition(ctx context.Context, marketID uuid.UUID, provider string) (*models.LiquidityPosition, error)
	CreateLiquidityPosition(ctx context.Context, position *models.LiquidityPosition) error
	SaveLiquidityPosition(ctx context.Context, position *models.LiquidityPosition) error
}
