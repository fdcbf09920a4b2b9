package payout

import (
	"time"

	"github.com/google/uuid"
)

// ClaimKind tells winnings and refunds apart
type ClaimKind string

const (
	ClaimKindWinnings ClaimKind = "winnings"
	ClaimKindRefund   ClaimKind = "refund"
)

// ClaimResponse reports a completed claim
type ClaimResponse struct {
	MarketID  uuid.UUID `json:"market_id"`
	Claimant  string    `json:"claimant"`
	Kind      ClaimKind `json:"kind"`
	Stake     uint64    `json:"stake"`
	Amount    uint64    `json:"amount"`
	ClaimedAt time.Time `json:"claimed_at"`
}
