package prediction

import (
	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// ApplyBet adds amount on outcome to the position and the market totals.
// Neither record is modified when an error is returned.
func ApplyBet(m *models.Market, p *models.Position, outcome models.Outcome, amount uint64) error {
	if !outcome.Valid() {
		return models.ErrInvalidOutcome
	}
	if err := p.Accepts(outcome); err != nil {
		return err
	}

	positionAmount, err := mathx.Add(p.Amount, amount)
	if err != nil {
		return err
	}
	stake, err := mathx.Add(m.Stake(outcome), amount)
	if err != nil {
		return err
	}
	// The pool total must stay representable so resolution can sum it.
	if _, err := mathx.Add(stake, m.Stake(outcome.Other())); err != nil {
		return err
	}
	bets, err := mathx.Inc(m.TotalBets)
	if err != nil {
		return err
	}

	p.Amount = positionAmount
	m.SetStake(outcome, stake)
	m.TotalBets = bets
	return nil
}
