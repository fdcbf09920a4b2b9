package liquidity

import (
	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// SplitDeposit divides a deposit between the two reserves. The first deposit
// is split evenly with the odd unit going to B; later deposits follow the
// current reserve ratio.
func SplitDeposit(amount, reserveA, reserveB uint64) (amountA, amountB uint64, err error) {
	total, err := mathx.Add(reserveA, reserveB)
	if err != nil {
		return 0, 0, err
	}
	if total == 0 {
		half := amount / 2
		return half, amount - half, nil
	}
	if amountA, err = mathx.MulDiv(amount, reserveA, total); err != nil {
		return 0, 0, err
	}
	return amountA, amount - amountA, nil
}

// SharesToMint prices a deposit in pool shares. The first provider receives
// one share per unit.
func SharesToMint(amount, lpSupply, totalLiquidity uint64) (uint64, error) {
	if lpSupply == 0 {
		return amount, nil
	}
	shares, err := mathx.MulDiv(amount, lpSupply, totalLiquidity)
	if err != nil {
		return 0, err
	}
	if shares == 0 {
		return 0, models.ErrInsufficientLiquidityMinted
	}
	return shares, nil
}

// Withdrawal is the quoted outcome of burning pool shares.
type Withdrawal struct {
	Gross uint64
	Fee   uint64
	Net   uint64
}

// QuoteWithdrawal values lpShares against the pool balance and takes the
// withdrawal fee from the gross amount.
func QuoteWithdrawal(lpShares, poolBalance, lpSupply, feeBps uint64) (Withdrawal, error) {
	if lpSupply == 0 {
		return Withdrawal{}, models.ErrNoLiquidity
	}
	if lpShares > lpSupply {
		return Withdrawal{}, models.ErrInsufficientShares
	}
	if err := mathx.ValidateBps(feeBps); err != nil {
		return Withdrawal{}, err
	}

	gross, err := mathx.MulDiv(lpShares, poolBalance, lpSupply)
	if err != nil {
		return Withdrawal{}, err
	}
	if gross == 0 {
		return Withdrawal{}, models.ErrInvalidWithdrawalAmount
	}
	if poolBalance < gross {
		return Withdrawal{}, models.ErrInsufficientPoolBalance
	}

	fee, err := mathx.Bps(gross, feeBps)
	if err != nil {
		return Withdrawal{}, err
	}
	return Withdrawal{Gross: gross, Fee: fee, Net: gross - fee}, nil
}

// SplitWithdrawal takes amount out of the reserves in proportion to their
// sizes. Neither share can exceed its reserve.
func SplitWithdrawal(amount, reserveA, reserveB uint64) (fromA, fromB uint64, err error) {
	total, err := mathx.Add(reserveA, reserveB)
	if err != nil {
		return 0, 0, err
	}
	if amount > total {
		return 0, 0, models.ErrInsufficientPoolBalance
	}
	if amount == 0 {
		return 0, 0, nil
	}
	if fromA, err = mathx.MulDiv(amount, reserveA, total); err != nil {
		return 0, 0, err
	}
	return fromA, amount - fromA, nil
}
