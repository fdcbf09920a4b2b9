package resolution

import (
	"time"

	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// Settlement is the fee split of a market's pool for one winning outcome.
type Settlement struct {
	Outcome     models.Outcome
	TotalPool   uint64
	OracleFee   uint64
	PlatformFee uint64
	PayoutPool  uint64
	WinningPool uint64
	LosingPool  uint64
}

// Settle computes the settlement of m for outcome without touching m.
func Settle(m *models.Market, outcome models.Outcome) (Settlement, error) {
	if !outcome.Valid() {
		return Settlement{}, models.ErrInvalidOutcome
	}

	total, err := mathx.Add(m.StakeA, m.StakeB)
	if err != nil {
		return Settlement{}, err
	}
	oracleFee, err := mathx.Bps(total, m.OracleFeeBps)
	if err != nil {
		return Settlement{}, err
	}
	platformFee, err := mathx.Bps(total, m.PlatformFeeBps)
	if err != nil {
		return Settlement{}, err
	}
	fees, err := mathx.Add(oracleFee, platformFee)
	if err != nil {
		return Settlement{}, err
	}
	payout, err := mathx.Sub(total, fees)
	if err != nil {
		return Settlement{}, err
	}

	return Settlement{
		Outcome:     outcome,
		TotalPool:   total,
		OracleFee:   oracleFee,
		PlatformFee: platformFee,
		PayoutPool:  payout,
		WinningPool: m.Stake(outcome),
		LosingPool:  m.Stake(outcome.Other()),
	}, nil
}

// Apply records the settlement on m and closes it.
func (s Settlement) Apply(m *models.Market, evidence []byte, now time.Time) error {
	if err := m.TransitionTo(models.MarketStatusResolved); err != nil {
		return err
	}
	outcome := s.Outcome
	m.WinningOutcome = &outcome
	m.ResolvedAt = &now
	m.OracleEvidence = append([]byte(nil), evidence...)
	m.OracleFee = s.OracleFee
	m.PlatformFee = s.PlatformFee
	m.TotalPayoutPool = s.PayoutPool
	m.WinningPool = s.WinningPool
	return nil
}
