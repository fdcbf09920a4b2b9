package payout

import (
	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// Winnings returns the share of payoutPool owed to a winning stake:
// floor(stake*payoutPool/winningPool). Rounding dust stays in the vault.
func Winnings(stake, payoutPool, winningPool uint64) (uint64, error) {
	if winningPool == 0 || stake == 0 {
		return 0, models.ErrNoWinnings
	}
	if stake > winningPool {
		return 0, models.ErrInsufficientVaultFunds
	}
	w, err := mathx.MulDiv(stake, payoutPool, winningPool)
	if err != nil {
		return 0, err
	}
	if w == 0 {
		return 0, models.ErrNoWinnings
	}
	return w, nil
}

// PositionWinnings evaluates a position against a resolved market.
func PositionWinnings(m *models.Market, p *models.Position) (uint64, error) {
	if err := m.EnsureResolved(); err != nil {
		return 0, err
	}
	if m.WinningOutcome == nil || !p.IsWinner(*m.WinningOutcome) {
		return 0, models.ErrNotAWinner
	}
	return Winnings(p.Amount, m.TotalPayoutPool, m.WinningPool)
}

// CheckBound verifies a payout keeps the market within its pool and the
// vault can cover it.
func CheckBound(m *models.Market, amount, vaultBalance uint64) error {
	claimed, err := mathx.Add(m.TotalClaimed, amount)
	if err != nil || claimed > m.TotalPayoutPool || vaultBalance < amount {
		return models.ErrInsufficientVaultFunds
	}
	return nil
}
