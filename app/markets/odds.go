package markets

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/models"
)

// CalculateOdds derives display odds from the betting stakes. With no stakes
// both outcomes read 50%.
func CalculateOdds(m *models.Market) (Odds, error) {
	total, err := mathx.Add(m.StakeA, m.StakeB)
	if err != nil {
		return Odds{}, err
	}

	bpsA, err := mathx.Ratio(m.StakeA, total)
	if err != nil {
		return Odds{}, err
	}
	bpsB := mathx.BpsDenominator - bpsA
	if total > 0 {
		if bpsB, err = mathx.Ratio(m.StakeB, total); err != nil {
			return Odds{}, err
		}
	}

	net, err := mathx.Bps(total, mathx.BpsDenominator-m.FeeBps())
	if err != nil {
		return Odds{}, err
	}

	return Odds{
		ProbabilityA:    percent(bpsA),
		ProbabilityB:    percent(bpsB),
		PayoutMultipleA: multiple(net, m.StakeA),
		PayoutMultipleB: multiple(net, m.StakeB),
	}, nil
}

// percent renders basis points with two decimals.
func percent(bps uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(bps), -2)
}

// multiple is the gross return per unit staked if the outcome wins.
func multiple(pool, stake uint64) decimal.Decimal {
	if stake == 0 {
		return decimal.Zero
	}
	return amount(pool).DivRound(amount(stake), 4)
}

func amount(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
