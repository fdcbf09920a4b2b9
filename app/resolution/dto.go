package resolution

import (
	"time"

	"github.com/google/uuid"
)

// ResolveRequest represents the oracle's verdict
// @Description Resolution payload; evidence is an opaque reference of at most 256 bytes
type ResolveRequest struct {
	Outcome  string `json:"outcome" validate:"required,oneof=A B a b"`
	Evidence string `json:"evidence" validate:"required"`
}

// ResolutionResponse reports how the pool was split
type ResolutionResponse struct {
	MarketID       uuid.UUID `json:"market_id"`
	WinningOutcome string    `json:"winning_outcome"`
	WinningLabel   string    `json:"winning_label"`
	TotalPool      uint64    `json:"total_pool"`
	OracleFee      uint64    `json:"oracle_fee"`
	PlatformFee    uint64    `json:"platform_fee"`
	PayoutPool     uint64    `json:"payout_pool"`
	WinningPool    uint64    `json:"winning_pool"`
	LosingPool     uint64    `json:"losing_pool"`
	ResolvedAt     time.Time `json:"resolved_at"`
}
