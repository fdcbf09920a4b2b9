package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outcome indexes one of the two mutually exclusive results of a market.
type Outcome uint8

const (
	OutcomeA Outcome = 0
	OutcomeB Outcome = 1
)

// Valid reports whether o names an outcome of a binary market.
func (o Outcome) Valid() bool {
	return o == OutcomeA || o == OutcomeB
}

// Other returns the opposite outcome.
func (o Outcome) Other() Outcome {
	if o == OutcomeA {
		return OutcomeB
	}
	return OutcomeA
}

// ParseOutcome accepts "A" or "B", case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "A", "a":
		return OutcomeA, nil
	case "B", "b":
		return OutcomeB, nil
	default:
		return 0, ErrInvalidOutcome
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeA:
		return "A"
	case OutcomeB:
		return "B"
	default:
		return "invalid"
	}
}

// Position is a participant's accumulated stake in one market. A position is
// bound to the outcome of its first bet.
type Position struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	MarketID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_positions_market_owner" json:"market_id"`
	Owner           string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_positions_market_owner" json:"owner"`
	Outcome         Outcome    `gorm:"not null" json:"outcome"`
	Amount          uint64     `gorm:"type:numeric(20,0);not null;default:0" json:"amount"`
	Claimed         bool       `gorm:"not null;default:false" json:"claimed"`
	WinningsClaimed uint64     `gorm:"type:numeric(20,0);not null;default:0" json:"winnings_claimed"`
	ClaimedAt       *time.Time `json:"claimed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Position model
func (*Position) TableName() string {
	return "positions"
}

// BeforeCreate sets up the model before creation
func (p *Position) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewPosition starts an empty position bound to outcome.
func NewPosition(marketID uuid.UUID, owner string, outcome Outcome) *Position {
	return &Position{
		MarketID: marketID,
		Owner:    owner,
		Outcome:  outcome,
	}
}

// Accepts rejects top-ups on the opposite outcome.
func (p *Position) Accepts(outcome Outcome) error {
	if p.Outcome != outcome {
		return ErrOutcomeMismatch
	}
	return nil
}

// IsWinner reports whether the position backed the winning outcome.
func (p *Position) IsWinner(winning Outcome) bool {
	return p.Outcome == winning
}

// MarkClaimed freezes the position with the amount paid out. It can only
// happen once.
func (p *Position) MarkClaimed(amount uint64, at time.Time) error {
	if p.Claimed {
		return ErrAlreadyClaimed
	}
	p.Claimed = true
	p.WinningsClaimed = amount
	p.ClaimedAt = &at
	return nil
}
