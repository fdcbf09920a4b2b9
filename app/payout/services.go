package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/internal/store"
	"github.com/joefazee/settle/models"
)

// Dependencies represents the collaborators of the payout service
type Dependencies struct {
	DB     *gorm.DB
	Store  store.Store
	Ledger ledger.Ledger
	Signer *authority.Signer
	Gate   gate.Gate
	Clock  clock.Clock
	Events events.Sink
	Logger logger.Logger
}

type service struct {
	Dependencies
	config *Config
}

// NewService creates a new payout service
func NewService(d Dependencies, config *Config) Service {
	return &service{Dependencies: d, config: config}
}

// claim is the part of a payout that differs between winnings and refunds:
// which state the market must be in and how much the position is owed.
type claim struct {
	kind     ClaimKind
	reason   models.TransferReason
	event    events.Kind
	ensure   func(m *models.Market) error
	amountOf func(m *models.Market, p *models.Position) (uint64, error)
	// bound checks amount against the market pool and the vault balance
	bound    func(m *models.Market, amount, vault uint64) error
	// record updates market totals after the transfer
	record   func(m *models.Market, amount uint64) error
}

var winnings = claim{
	kind:     ClaimKindWinnings,
	reason:   models.TransferReasonPayout,
	event:    events.WinningsClaimed,
	ensure:   (*models.Market).EnsureResolved,
	amountOf: PositionWinnings,
	bound:    CheckBound,
	record: func(m *models.Market, amount uint64) error {
		total, err := mathx.Add(m.TotalClaimed, amount)
		if err != nil {
			return err
		}
		m.TotalClaimed = total
		return nil
	},
}

var refund = claim{
	kind:   ClaimKindRefund,
	reason: models.TransferReasonRefund,
	event:  events.RefundClaimed,
	ensure: (*models.Market).EnsureCancelled,
	amountOf: func(_ *models.Market, p *models.Position) (uint64, error) {
		if p.Amount == 0 {
			return 0, models.ErrNoWinnings
		}
		return p.Amount, nil
	},
	bound: func(_ *models.Market, amount, vault uint64) error {
		if vault < amount {
			return models.ErrInsufficientVaultFunds
		}
		return nil
	},
	record: func(*models.Market, uint64) error { return nil },
}

func (s *service) ClaimWinnings(ctx context.Context, marketID uuid.UUID, claimant string) (*ClaimResponse, error) {
	resp, err := s.claim(ctx, marketID, claimant, winnings)
	if err != nil {
		return nil, fmt.Errorf("claim winnings: %w", err)
	}
	return resp, nil
}

func (s *service) ClaimRefund(ctx context.Context, marketID uuid.UUID, claimant string) (*ClaimResponse, error) {
	resp, err := s.claim(ctx, marketID, claimant, refund)
	if err != nil {
		return nil, fmt.Errorf("claim refund: %w", err)
	}
	return resp, nil
}

func (s *service) claim(ctx context.Context, marketID uuid.UUID, claimant string, c claim) (*ClaimResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}

	var (
		resp    *ClaimResponse
		market  *models.Market
		amount  uint64
		balance uint64
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.Store.WithTx(tx)
		lg := s.Ledger.WithTx(tx)

		var err error
		market, err = st.LockMarket(ctx, marketID)
		if err != nil {
			return err
		}
		if err := c.ensure(market); err != nil {
			return err
		}
		position, err := st.GetPosition(ctx, marketID, claimant)
		if err != nil {
			return err
		}
		if position.Claimed {
			return models.ErrAlreadyClaimed
		}
		if amount, err = c.amountOf(market, position); err != nil {
			return err
		}

		vault := authority.Account(marketID, authority.VaultStakes)
		if balance, err = lg.Balance(ctx, vault); err != nil {
			return err
		}
		if err := c.bound(market, amount, balance); err != nil {
			return err
		}

		grant, err := s.Signer.Derive(marketID, authority.VaultStakes)
		if err != nil {
			return err
		}
		if _, err := lg.Release(ctx, grant, claimant, amount, ledger.MarketRef(c.reason, marketID)); err != nil {
			return err
		}

		now := s.Clock.Now()
		if err := position.MarkClaimed(amount, now); err != nil {
			return err
		}
		if err := c.record(market, amount); err != nil {
			return err
		}
		if err := st.SavePosition(ctx, position); err != nil {
			return err
		}
		if err := st.SaveMarket(ctx, market); err != nil {
			return err
		}

		resp = &ClaimResponse{
			MarketID:  marketID,
			Claimant:  claimant,
			Kind:      c.kind,
			Stake:     position.Amount,
			Amount:    amount,
			ClaimedAt: now,
		}
		return nil
	})
	if err != nil {
		if models.IsFatal(err) {
			s.invariantBreach(err, market, claimant, amount, balance)
		}
		return nil, err
	}

	s.Logger.Info("claim paid", logger.Fields{
		"market_id": marketID,
		"claimant":  claimant,
		"kind":      c.kind,
		"amount":    amount,
	})
	s.Events.Emit(ctx, events.Event{
		Kind:     c.event,
		MarketID: marketID,
		Actor:    claimant,
		Data: map[string]interface{}{
			"amount": amount,
		},
		Timestamp: resp.ClaimedAt,
	})
	return resp, nil
}

// invariantBreach reports a payout the pool or the vault cannot cover. The
// accounting is already wrong when this happens, so it is never a user error.
func (s *service) invariantBreach(err error, m *models.Market, claimant string, amount, vaultBalance uint64) {
	fields := logger.Fields{
		"invariant":     "payout_bound",
		"claimant":      claimant,
		"amount":        amount,
		"vault_balance": vaultBalance,
	}
	if m != nil {
		fields["market_id"] = m.ID
		fields["status"] = m.Status
		fields["stake_a"] = m.StakeA
		fields["stake_b"] = m.StakeB
		fields["total_payout_pool"] = m.TotalPayoutPool
		fields["winning_pool"] = m.WinningPool
		fields["total_claimed"] = m.TotalClaimed
	}
	s.Logger.Error(err, fields)

	if s.config.StrictInvariants {
		panic(errors.Join(errors.New("payout invariant violated"), err))
	}
}
