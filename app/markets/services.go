package markets

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/sanitizer"
	"github.com/joefazee/settle/internal/store"
	"github.com/joefazee/settle/models"
)

// Dependencies represents the collaborators of the market service
type Dependencies struct {
	DB        *gorm.DB
	Store     store.Store
	Ledger    ledger.Ledger
	Gate      gate.Gate
	Clock     clock.Clock
	Sanitizer sanitizer.HTMLStripperer
	Events    events.Sink
	Logger    logger.Logger
}

// service implements the Service interface
type service struct {
	Dependencies
	config *Config
	cache  *readCache
}

// NewService creates a new market service. rc may be nil, in which case
// reads always hit the store.
func NewService(d Dependencies, config *Config, rc *readCache) Service {
	return &service{Dependencies: d, config: config, cache: rc}
}

// CreateMarket creates a new prediction market
func (s *service) CreateMarket(ctx context.Context, caller string, req *CreateMarketRequest) (*MarketResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	if err := s.validateTiming(now, req); err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}

	market := &models.Market{
		Creator:            caller,
		Oracle:             req.Oracle,
		OracleFeeAccount:   req.OracleFeeAccount,
		Title:              s.Sanitizer.StripHTML(req.Title),
		Description:        s.Sanitizer.StripHTML(req.Description),
		OutcomeA:           s.Sanitizer.StripHTML(req.OutcomeA),
		OutcomeB:           s.Sanitizer.StripHTML(req.OutcomeB),
		Status:             models.MarketStatusActive,
		ResolutionDeadline: req.ResolutionDeadline.UTC(),
		OracleFeeBps:       orDefault(req.OracleFeeBps, s.config.DefaultOracleFeeBps),
		PlatformFeeBps:     s.config.PlatformFeeBps,
		WithdrawalFeeBps:   orDefault(req.WithdrawalFeeBps, s.config.DefaultWithdrawalFeeBps),
		CreatedAt:          now,
	}
	if req.ID != nil {
		market.ID = *req.ID
	}
	if market.OracleFeeAccount == "" {
		market.OracleFeeAccount = market.Oracle
	}

	if err := market.Validate(); err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}

	if err := s.Store.CreateMarket(ctx, market); err != nil {
		return nil, fmt.Errorf("create market: %w", err)
	}

	s.Logger.Info("market created", logger.Fields{
		"market_id": market.ID,
		"creator":   caller,
		"oracle":    market.Oracle,
		"deadline":  market.ResolutionDeadline,
	})
	s.Events.Emit(ctx, events.Event{
		Kind:     events.MarketCreated,
		MarketID: market.ID,
		Actor:    caller,
		Data: map[string]interface{}{
			"oracle":              market.Oracle,
			"title":               market.Title,
			"resolution_deadline": market.ResolutionDeadline,
			"oracle_fee_bps":      market.OracleFeeBps,
			"platform_fee_bps":    market.PlatformFeeBps,
		},
		Timestamp: now,
	})

	return ToMarketResponse(market), nil
}

func (s *service) validateTiming(now time.Time, req *CreateMarketRequest) error {
	if !req.ResolutionDeadline.After(now) {
		return models.ErrInvalidDeadline
	}
	duration := req.ResolutionDeadline.Sub(now)
	if duration < s.config.MinMarketDuration || duration > s.config.MaxMarketDuration {
		return models.ErrInvalidMarketDuration
	}
	return nil
}

func orDefault(v *uint64, def uint64) uint64 {
	if v == nil {
		return def
	}
	return *v
}

// GetMarket returns the market read model
func (s *service) GetMarket(ctx context.Context, id uuid.UUID) (*MarketDetailResponse, error) {
	if s.cache == nil {
		return s.loadDetail(ctx, id)
	}
	return s.cache.get(ctx, id, func(ctx context.Context) (*MarketDetailResponse, error) {
		return s.loadDetail(ctx, id)
	})
}

func (s *service) loadDetail(ctx context.Context, id uuid.UUID) (*MarketDetailResponse, error) {
	market, err := s.Store.GetMarket(ctx, id)
	if err != nil {
		return nil, err
	}

	odds, err := CalculateOdds(market)
	if err != nil {
		return nil, fmt.Errorf("calculate odds: %w", err)
	}

	stakes, err := s.Ledger.Balance(ctx, authority.Account(id, authority.VaultStakes))
	if err != nil {
		return nil, err
	}
	pool, err := s.Ledger.Balance(ctx, authority.Account(id, authority.VaultLiquidity))
	if err != nil {
		return nil, err
	}

	return &MarketDetailResponse{
		MarketResponse:        *ToMarketResponse(market),
		Odds:                  odds,
		StakeVaultBalance:     stakes,
		LiquidityVaultBalance: pool,
	}, nil
}

// CancelMarket moves an active or disputed market to cancelled
func (s *service) CancelMarket(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error) {
	allowed := func(m *models.Market, now time.Time) error {
		if admin {
			return nil
		}
		return m.CheckCreatorWindow(caller, now)
	}
	return s.transition(ctx, id, caller, req.Reason, models.MarketStatusCancelled, events.MarketCancelled, allowed)
}

// DisputeMarket flags an active market as disputed
func (s *service) DisputeMarket(ctx context.Context, id uuid.UUID, caller string, admin bool, req *StatusChangeRequest) (*MarketResponse, error) {
	allowed := func(m *models.Market, now time.Time) error {
		if admin || m.IsOracle(caller) {
			return nil
		}
		return m.CheckCreatorWindow(caller, now)
	}
	return s.transition(ctx, id, caller, req.Reason, models.MarketStatusDisputed, events.MarketDisputed, allowed)
}

func (s *service) transition(
	ctx context.Context,
	id uuid.UUID,
	caller, reason string,
	next models.MarketStatus,
	kind events.Kind,
	allowed func(m *models.Market, now time.Time) error,
) (*MarketResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}

	var market *models.Market
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.Store.WithTx(tx)

		m, err := st.LockMarket(ctx, id)
		if err != nil {
			return err
		}
		if err := allowed(m, s.Clock.Now()); err != nil {
			return err
		}
		prev := m.Status
		if err := m.TransitionTo(next); err != nil {
			return err
		}
		if err := st.SaveMarket(ctx, m); err != nil {
			return err
		}

		s.Logger.Info("market status changed", logger.Fields{
			"market_id": id,
			"caller":    caller,
			"from":      prev,
			"to":        next,
		})
		market = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s market: %w", next, err)
	}

	s.Events.Emit(ctx, events.Event{
		Kind:      kind,
		MarketID:  id,
		Actor:     caller,
		Data:      map[string]interface{}{"reason": reason},
		Timestamp: s.Clock.Now(),
	})

	return ToMarketResponse(market), nil
}
