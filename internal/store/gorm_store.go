package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joefazee/settle/models"
)

type gormStore struct {
	db *gorm.DB
}

// New returns a Store backed by db.
func New(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithTx(tx *gorm.DB) Store {
	return &gormStore{db: tx}
}

func (s *gormStore) GetMarket(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&market).Error
	if err != nil {
		return nil, notFound(err, models.ErrMarketNotFound)
	}
	return &market, nil
}

func (s *gormStore) LockMarket(ctx context.Context, id uuid.UUID) (*models.Market, error) {
	var market models.Market
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&market).Error
	if err != nil {
		return nil, notFound(err, models.ErrMarketNotFound)
	}
	return &market, nil
}

func (s *gormStore) CreateMarket(ctx context.Context, market *models.Market) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(market)
	if res.Error != nil {
		return fmt.Errorf("create market: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrMarketExists
	}
	return nil
}

func (s *gormStore) SaveMarket(ctx context.Context, market *models.Market) error {
	if err := s.db.WithContext(ctx).Save(market).Error; err != nil {
		return fmt.Errorf("save market: %w", err)
	}
	return nil
}

func (s *gormStore) GetPosition(ctx context.Context, marketID uuid.UUID, owner string) (*models.Position, error) {
	var position models.Position
	err := s.db.WithContext(ctx).
		Where("market_id = ? AND owner = ?", marketID, owner).
		First(&position).Error
	if err != nil {
		return nil, notFound(err, models.ErrPositionNotFound)
	}
	return &position, nil
}

func (s *gormStore) CreatePosition(ctx context.Context, position *models.Position) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(position)
	if res.Error != nil {
		return fmt.Errorf("create position: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordExists
	}
	return nil
}

func (s *gormStore) SavePosition(ctx context.Context, position *models.Position) error {
	if err := s.db.WithContext(ctx).Save(position).Error; err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

func (s *gormStore) ListPositions(ctx context.Context, marketID uuid.UUID) ([]models.Position, error) {
	var positions []models.Position
	err := s.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("created_at ASC").
		Find(&positions).Error
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return positions, nil
}

func (s *gormStore) GetLiquidityPosition(ctx context.Context, marketID uuid.UUID, provider string) (*models.LiquidityPosition, error) {
	var position models.LiquidityPosition
	err := s.db.WithContext(ctx).
		Where("market_id = ? AND provider = ?", marketID, provider).
		First(&position).Error
	if err != nil {
		return nil, notFound(err, models.ErrPositionNotFound)
	}
	return &position, nil
}

func (s *gormStore) CreateLiquidityPosition(ctx context.Context, position *models.LiquidityPosition) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(position)
	if res.Error != nil {
		return fmt.Errorf("create liquidity position: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrRecordExists
	}
	return nil
}

func (s *gormStore) SaveLiquidityPosition(ctx context.Context, position *models.LiquidityPosition) error {
	if err := s.db.WithContext(ctx).Save(position).Error; err != nil {
		return fmt.Errorf("save liquidity position: %w", err)
	}
	return nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
