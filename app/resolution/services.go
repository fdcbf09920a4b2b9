package resolution

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/store"
	"github.com/joefazee/settle/models"
)

// Dependencies represents the collaborators of the resolution service
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

// NewService creates a new resolution service
func NewService(d Dependencies, config *Config) Service {
	return &service{Dependencies: d, config: config}
}

func (s *service) Resolve(ctx context.Context, marketID uuid.UUID, caller string, req *ResolveRequest) (*ResolutionResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}

	var (
		resp     *ResolutionResponse
		market   *models.Market
		settled  Settlement
		evidence = []byte(req.Evidence)
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.Store.WithTx(tx)
		lg := s.Ledger.WithTx(tx)

		var err error
		market, err = st.LockMarket(ctx, marketID)
		if err != nil {
			return err
		}

		now := s.Clock.Now()
		if !market.IsOracle(caller) {
			return models.ErrInvalidOracle
		}
		if !market.IsExpired(now) {
			return models.ErrMarketNotExpired
		}
		if err := market.EnsureResolvable(now); err != nil {
			return err
		}
		outcome, err := models.ParseOutcome(req.Outcome)
		if err != nil {
			return err
		}
		if len(evidence) == 0 || len(evidence) > s.config.MaxEvidenceBytes {
			return models.ErrInvalidOracleData
		}

		settled, err = Settle(market, outcome)
		if err != nil {
			return err
		}
		if err := s.payFees(ctx, lg, market, settled); err != nil {
			return err
		}
		if err := settled.Apply(market, evidence, now); err != nil {
			return err
		}
		if err := st.SaveMarket(ctx, market); err != nil {
			return err
		}

		resp = &ResolutionResponse{
			MarketID:       marketID,
			WinningOutcome: outcome.String(),
			WinningLabel:   market.Label(outcome),
			TotalPool:      settled.TotalPool,
			OracleFee:      settled.OracleFee,
			PlatformFee:    settled.PlatformFee,
			PayoutPool:     settled.PayoutPool,
			WinningPool:    settled.WinningPool,
			LosingPool:     settled.LosingPool,
			ResolvedAt:     now,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("resolve market: %w", err)
	}

	s.Logger.Info("market resolved", logger.Fields{
		"market_id":   marketID,
		"oracle":      caller,
		"outcome":     resp.WinningOutcome,
		"total_pool":  resp.TotalPool,
		"payout_pool": resp.PayoutPool,
	})
	s.Events.Emit(ctx, events.Event{
		Kind:     events.MarketResolved,
		MarketID: marketID,
		Actor:    caller,
		Data: map[string]interface{}{
			"outcome":      resp.WinningOutcome,
			"oracle":       market.Oracle,
			"total_pool":   settled.TotalPool,
			"oracle_fee":   settled.OracleFee,
			"platform_fee": settled.PlatformFee,
			"payout_pool":  settled.PayoutPool,
			"winning_pool": settled.WinningPool,
			"losing_pool":  settled.LosingPool,
		},
		Timestamp: resp.ResolvedAt,
	})
	return resp, nil
}

// payFees releases the oracle and platform fees from the stake vault. Zero
// fees move nothing.
func (s *service) payFees(ctx context.Context, lg ledger.Ledger, m *models.Market, fees Settlement) error {
	if fees.OracleFee == 0 && fees.PlatformFee == 0 {
		return nil
	}
	grant, err := s.Signer.Derive(m.ID, authority.VaultStakes)
	if err != nil {
		return err
	}

	if fees.OracleFee > 0 {
		ref := ledger.MarketRef(models.TransferReasonOracleFee, m.ID)
		if _, err := lg.Release(ctx, grant, m.OracleFeeAccount, fees.OracleFee, ref); err != nil {
			return err
		}
	}
	if fees.PlatformFee > 0 {
		ref := ledger.MarketRef(models.TransferReasonPlatformFee, m.ID)
		if _, err := lg.Release(ctx, grant, s.config.PlatformFeeAccount, fees.PlatformFee, ref); err != nil {
			return err
		}
	}
	return nil
}
