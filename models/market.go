package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MarketStatus is the lifecycle state of a market
type MarketStatus string

const (
	MarketStatusActive    MarketStatus = "active"
	MarketStatusResolved  MarketStatus = "resolved"
	MarketStatusCancelled MarketStatus = "cancelled"
	MarketStatusDisputed  MarketStatus = "disputed"
)

// transitions lists every status change the lifecycle allows.
var transitions = map[MarketStatus][]MarketStatus{
	MarketStatusActive:   {MarketStatusResolved, MarketStatusCancelled, MarketStatusDisputed},
	MarketStatusDisputed: {MarketStatusCancelled},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s MarketStatus) CanTransitionTo(next MarketStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s MarketStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Market is a binary prediction market together with its betting stakes and
// liquidity pool accounting.
type Market struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Creator          string    `gorm:"type:varchar(128);not null;index" json:"creator"`
	Oracle           string    `gorm:"type:varchar(128);not null;index" json:"oracle"`
	OracleFeeAccount string    `gorm:"type:varchar(128);not null" json:"oracle_fee_account"`
	Title            string    `gorm:"type:varchar(200);not null" json:"title"`
	Description      string    `gorm:"type:varchar(500)" json:"description"`
	OutcomeA         string    `gorm:"type:varchar(64);not null" json:"outcome_a"`
	OutcomeB         string    `gorm:"type:varchar(64);not null" json:"outcome_b"`

	Status             MarketStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ResolutionDeadline time.Time    `gorm:"not null;index" json:"resolution_deadline"`
	ResolvedAt         *time.Time   `json:"resolved_at,omitempty"`
	WinningOutcome     *Outcome     `json:"winning_outcome,omitempty"`
	OracleEvidence     []byte       `json:"oracle_evidence,omitempty"`

	OracleFeeBps     uint64 `gorm:"not null;default:0" json:"oracle_fee_bps"`
	PlatformFeeBps   uint64 `gorm:"not null;default:0" json:"platform_fee_bps"`
	WithdrawalFeeBps uint64 `gorm:"not null;default:0" json:"withdrawal_fee_bps"`

	StakeA    uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"stake_a"`
	StakeB    uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"stake_b"`
	TotalBets uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"total_bets"`

	ReserveA               uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"reserve_a"`
	ReserveB               uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"reserve_b"`
	LPSupply               uint64 `gorm:"column:lp_supply;type:numeric(20,0);not null;default:0" json:"lp_supply"`
	LiquidityProviders     uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"liquidity_providers"`
	LiquidityFeesCollected uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"liquidity_fees_collected"`

	OracleFee       uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"oracle_fee"`
	PlatformFee     uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"platform_fee"`
	TotalPayoutPool uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"total_payout_pool"`
	WinningPool     uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"winning_pool"`
	TotalClaimed    uint64 `gorm:"type:numeric(20,0);not null;default:0" json:"total_claimed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Market model
func (*Market) TableName() string {
	return "markets"
}

// BeforeCreate sets up the model before creation
func (m *Market) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = MarketStatusActive
	}
	return nil
}

// Validate checks the fields a market must carry from creation on.
func (m *Market) Validate() error {
	if m.Title == "" || len([]rune(m.Title)) > MaxTitleRunes {
		return ErrInvalidMarketTitle
	}
	if len([]rune(m.Description)) > MaxDescriptionRunes {
		return ErrInvalidMarketDescription
	}
	if m.OutcomeA == "" || m.OutcomeB == "" || m.OutcomeA == m.OutcomeB {
		return ErrInvalidOutcomeLabel
	}
	if m.Creator == "" || m.Oracle == "" {
		return ErrInvalidIdentity
	}
	if m.Creator == m.Oracle {
		return ErrCreatorIsOracle
	}
	if m.OracleFeeBps >= 10_000 || m.PlatformFeeBps >= 10_000 ||
		m.OracleFeeBps+m.PlatformFeeBps >= 10_000 || m.WithdrawalFeeBps >= 10_000 {
		return ErrInvalidFeeRate
	}
	return nil
}

const (
	MaxTitleRunes       = 200
	MaxDescriptionRunes = 500
	MaxOracleDataBytes  = 256
)

// IsActive returns true while stakes and reserves may change
func (m *Market) IsActive() bool {
	return m.Status == MarketStatusActive
}

// IsResolved returns true once the oracle has settled the market
func (m *Market) IsResolved() bool {
	return m.Status == MarketStatusResolved
}

// IsCancelled returns true if the market was administratively cancelled
func (m *Market) IsCancelled() bool {
	return m.Status == MarketStatusCancelled
}

// IsExpired reports whether the resolution deadline has been reached.
func (m *Market) IsExpired(now time.Time) bool {
	return !now.Before(m.ResolutionDeadline)
}

// IsOracle reports whether caller is this market's oracle.
func (m *Market) IsOracle(caller string) bool {
	return caller != "" && caller == m.Oracle
}

// IsAuthority reports whether caller created this market.
func (m *Market) IsAuthority(caller string) bool {
	return caller != "" && caller == m.Creator
}

// HasParticipants reports whether any stake or liquidity has entered the market.
func (m *Market) HasParticipants() bool {
	return m.StakeA > 0 || m.StakeB > 0 || m.TotalBets > 0 || m.LPSupply > 0
}

// CheckCreatorWindow lets the creator cancel or dispute only a market nobody
// has entered yet and whose deadline is still ahead. Past that point status
// changes belong to admins and the oracle.
func (m *Market) CheckCreatorWindow(caller string, now time.Time) error {
	if !m.IsAuthority(caller) {
		return ErrNotAuthority
	}
	if m.HasParticipants() || m.IsExpired(now) {
		return ErrCreatorWindowClosed
	}
	return nil
}

// EnsureActive guards every stake or reserve mutation.
func (m *Market) EnsureActive() error {
	if !m.IsActive() {
		return ErrMarketNotActive
	}
	return nil
}

// EnsureResolvable distinguishes a second resolution attempt from any other
// non-active state.
func (m *Market) EnsureResolvable(now time.Time) error {
	switch m.Status {
	case MarketStatusActive:
	case MarketStatusResolved:
		return ErrMarketAlreadyResolved
	default:
		return ErrMarketNotActive
	}
	if !m.IsExpired(now) {
		return ErrMarketNotExpired
	}
	return nil
}

func (m *Market) EnsureResolved() error {
	if !m.IsResolved() {
		return ErrMarketNotResolved
	}
	return nil
}

func (m *Market) EnsureCancelled() error {
	if !m.IsCancelled() {
		return ErrMarketNotCancelled
	}
	return nil
}

// EnsureSettled accepts markets whose lifecycle has ended with funds still
// to hand back.
func (m *Market) EnsureSettled() error {
	if m.IsResolved() || m.IsCancelled() {
		return nil
	}
	return ErrMarketNotSettled
}

// TransitionTo moves the market to next if the lifecycle allows it.
func (m *Market) TransitionTo(next MarketStatus) error {
	if !m.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	m.Status = next
	return nil
}

// Stake returns the aggregated stake behind outcome.
func (m *Market) Stake(o Outcome) uint64 {
	if o == OutcomeB {
		return m.StakeB
	}
	return m.StakeA
}

// SetStake replaces the aggregated stake behind outcome.
func (m *Market) SetStake(o Outcome, amount uint64) {
	if o == OutcomeB {
		m.StakeB = amount
		return
	}
	m.StakeA = amount
}

// Label returns the human readable name of outcome.
func (m *Market) Label(o Outcome) string {
	if o == OutcomeB {
		return m.OutcomeB
	}
	return m.OutcomeA
}

// FeeBps is the total rate taken from the betting pool at resolution.
func (m *Market) FeeBps() uint64 {
	return m.OracleFeeBps + m.PlatformFeeBps
}
