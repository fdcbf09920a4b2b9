package mathx

import "errors"

// BpsDenominator is the basis point scale: 10000 bps == 100%.
const BpsDenominator uint64 = 10_000

// ErrInvalidBps is returned for a rate at or above 100%.
var ErrInvalidBps = errors.New("basis points must be below 10000")

// ValidateBps accepts rates in [0, 10000).
func ValidateBps(bps uint64) error {
	if bps >= BpsDenominator {
		return ErrInvalidBps
	}
	return nil
}

// Bps returns floor(amount*bps/10000).
func Bps(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, BpsDenominator)
}

// Ratio expresses part/whole in basis points. An empty whole is treated as an
// even split.
func Ratio(part, whole uint64) (uint64, error) {
	if whole == 0 {
		return BpsDenominator / 2, nil
	}
	if part > whole {
		return 0, ErrOverflow
	}
	return MulDiv(part, BpsDenominator, whole)
}
