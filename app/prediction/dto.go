package prediction

import (
	"time"

	"github.com/google/uuid"

	"github.com/joefazee/settle/models"
)

// PlaceBetRequest represents the request to bet on one outcome
// @Description Bet payload; outcome is "A" or "B"
type PlaceBetRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=A B a b"`
	Amount  uint64 `json:"amount" validate:"required,gt=0"`
}

// BetResponse reports an accepted bet and the resulting position
type BetResponse struct {
	MarketID   uuid.UUID `json:"market_id"`
	Bettor     string    `json:"bettor"`
	Outcome    string    `json:"outcome"`
	Amount     uint64    `json:"amount"`
	Position   uint64    `json:"position"`
	StakeA     uint64    `json:"stake_a"`
	StakeB     uint64    `json:"stake_b"`
	MinimumBet uint64    `json:"minimum_bet"`
	PlacedAt   time.Time `json:"placed_at"`
}

// PositionResponse represents a participant's position
type PositionResponse struct {
	ID              uuid.UUID  `json:"id"`
	MarketID        uuid.UUID  `json:"market_id"`
	Owner           string     `json:"owner"`
	Outcome         string     `json:"outcome"`
	Amount          uint64     `json:"amount"`
	Claimed         bool       `json:"claimed"`
	WinningsClaimed uint64     `json:"winnings_claimed"`
	ClaimedAt       *time.Time `json:"claimed_at,omitempty"`
	// PotentialPayout is set once the market is resolved
	PotentialPayout *uint64    `json:"potential_payout,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToPositionResponse converts a position model to its response
func ToPositionResponse(p *models.Position) *PositionResponse {
	return &PositionResponse{
		ID:              p.ID,
		MarketID:        p.MarketID,
		Owner:           p.Owner,
		Outcome:         p.Outcome.String(),
		Amount:          p.Amount,
		Claimed:         p.Claimed,
		WinningsClaimed: p.WinningsClaimed,
		ClaimedAt:       p.ClaimedAt,
		CreatedAt:       p.CreatedAt,
	}
}
