package prediction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/app/payout"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/store"
	"github.com/joefazee/settle/models"
)

// Dependencies represents the collaborators of the betting service
type Dependencies struct {
	DB     *gorm.DB
	Store  store.Store
	Ledger ledger.Ledger
	Gate   gate.Gate
	Clock  clock.Clock
	Events events.Sink
	Logger logger.Logger
}

// service implements the Service interface
type service struct {
	Dependencies
	config *Config
}

// NewService creates a new betting service
func NewService(d Dependencies, config *Config) Service {
	return &service{Dependencies: d, config: config}
}

// PlaceBet moves amount from the bettor into the stake vault and records it
// on the bettor's position.
func (s *service) PlaceBet(ctx context.Context, marketID uuid.UUID, bettor string, req *PlaceBetRequest) (*BetResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}
	outcome, err := models.ParseOutcome(req.Outcome)
	if err != nil {
		return nil, fmt.Errorf("place bet: %w", err)
	}
	if req.Amount == 0 {
		return nil, fmt.Errorf("place bet: %w", models.ErrInvalidAmount)
	}

	var resp *BetResponse
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.Store.WithTx(tx)
		lg := s.Ledger.WithTx(tx)

		market, err := st.LockMarket(ctx, marketID)
		if err != nil {
			return err
		}
		if err := market.EnsureActive(); err != nil {
			return err
		}
		minimum, err := CheckBetLimits(req.Amount, market, s.config)
		if err != nil {
			return err
		}

		position, err := st.GetPosition(ctx, marketID, bettor)
		created := false
		if errors.Is(err, models.ErrPositionNotFound) {
			position, created = models.NewPosition(marketID, bettor, outcome), true
		} else if err != nil {
			return err
		}

		// Binding and overflow are settled before any value moves.
		if err := ApplyBet(market, position, outcome, req.Amount); err != nil {
			return err
		}

		vault := authority.Account(marketID, authority.VaultStakes)
		if _, err := lg.Transfer(ctx, bettor, vault, req.Amount, ledger.MarketRef(models.TransferReasonBet, marketID)); err != nil {
			return err
		}

		if created {
			err = st.CreatePosition(ctx, position)
		} else {
			err = st.SavePosition(ctx, position)
		}
		if err != nil {
			return err
		}
		if err := st.SaveMarket(ctx, market); err != nil {
			return err
		}

		resp = &BetResponse{
			MarketID:   marketID,
			Bettor:     bettor,
			Outcome:    outcome.String(),
			Amount:     req.Amount,
			Position:   position.Amount,
			StakeA:     market.StakeA,
			StakeB:     market.StakeB,
			MinimumBet: minimum,
			PlacedAt:   s.Clock.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place bet: %w", err)
	}

	s.Logger.Info("bet placed", logger.Fields{
		"market_id": marketID,
		"bettor":    bettor,
		"outcome":   resp.Outcome,
		"amount":    req.Amount,
	})
	s.Events.Emit(ctx, events.Event{
		Kind:     events.BetPlaced,
		MarketID: marketID,
		Actor:    bettor,
		Data: map[string]interface{}{
			"outcome": resp.Outcome,
			"amount":  req.Amount,
		},
		Timestamp: resp.PlacedAt,
	})
	return resp, nil
}

func (s *service) GetPosition(ctx context.Context, marketID uuid.UUID, owner string) (*PositionResponse, error) {
	market, err := s.Store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	position, err := s.Store.GetPosition(ctx, marketID, owner)
	if err != nil {
		return nil, err
	}
	return s.toResponse(market, position), nil
}

func (s *service) ListPositions(ctx context.Context, marketID uuid.UUID) ([]PositionResponse, error) {
	market, err := s.Store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	positions, err := s.Store.ListPositions(ctx, marketID)
	if err != nil {
		return nil, err
	}

	responses := make([]PositionResponse, len(positions))
	for i := range positions {
		responses[i] = *s.toResponse(market, &positions[i])
	}
	return responses, nil
}

func (s *service) toResponse(m *models.Market, p *models.Position) *PositionResponse {
	resp := ToPositionResponse(p)
	if !m.IsResolved() || p.Claimed {
		return resp
	}

	var potential uint64
	if w, err := payout.PositionWinnings(m, p); err == nil {
		potential = w
	}
	resp.PotentialPayout = &potential
	return resp
}
