package markets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joefazee/settle/models"
)

// CreateMarketRequest represents the request to create a market
// @Description Request payload for creating a binary prediction market
type CreateMarketRequest struct {
	// ID makes creation idempotent when supplied by the client
	ID *uuid.UUID `json:"id,omitempty"`

	// Title Market question
	Title string `json:"title" validate:"required,max=1000"`

	// Description optional context for the question
	Description string `json:"description,omitempty" validate:"max=2000"`

	// OutcomeA and OutcomeB label the two results
	OutcomeA string `json:"outcome_a" validate:"required,max=64"`
	OutcomeB string `json:"outcome_b" validate:"required,max=64"`

	// Oracle is the only identity allowed to resolve the market
	Oracle string `json:"oracle" validate:"required,account_id"`

	// OracleFeeAccount receives the oracle fee, defaults to Oracle
	OracleFeeAccount string `json:"oracle_fee_account,omitempty" validate:"omitempty,account_id"`

	ResolutionDeadline time.Time `json:"resolution_deadline" validate:"required"`

	// Fee overrides in basis points. The platform fee is not negotiable per
	// market and always comes from configuration.
	OracleFeeBps     *uint64 `json:"oracle_fee_bps,omitempty" validate:"omitempty,lt=10000"`
	WithdrawalFeeBps *uint64 `json:"withdrawal_fee_bps,omitempty" validate:"omitempty,lt=10000"`
}

// StatusChangeRequest carries the reason for a cancellation or dispute
type StatusChangeRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// MarketResponse represents a market record
type MarketResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Creator            string              `json:"creator"`
	Oracle             string              `json:"oracle"`
	OracleFeeAccount   string              `json:"oracle_fee_account"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	OutcomeA           string              `json:"outcome_a"`
	OutcomeB           string              `json:"outcome_b"`
	Status             models.MarketStatus `json:"status"`
	ResolutionDeadline time.Time           `json:"resolution_deadline"`
	ResolvedAt         *time.Time          `json:"resolved_at,omitempty"`
	WinningOutcome     string              `json:"winning_outcome,omitempty"`

	OracleFeeBps     uint64 `json:"oracle_fee_bps"`
	PlatformFeeBps   uint64 `json:"platform_fee_bps"`
	WithdrawalFeeBps uint64 `json:"withdrawal_fee_bps"`

	StakeA    uint64 `json:"stake_a"`
	StakeB    uint64 `json:"stake_b"`
	TotalBets uint64 `json:"total_bets"`

	ReserveA               uint64 `json:"reserve_a"`
	ReserveB               uint64 `json:"reserve_b"`
	LPSupply               uint64 `json:"lp_supply"`
	LiquidityProviders     uint64 `json:"liquidity_providers"`
	LiquidityFeesCollected uint64 `json:"liquidity_fees_collected"`

	OracleFee       uint64 `json:"oracle_fee"`
	PlatformFee     uint64 `json:"platform_fee"`
	TotalPayoutPool uint64 `json:"total_payout_pool"`
	WinningPool     uint64 `json:"winning_pool"`
	TotalClaimed    uint64 `json:"total_claimed"`

	CreatedAt time.Time `json:"created_at"`
}

// Odds are implied probabilities in percent and gross payout multiples
type Odds struct {
	ProbabilityA    decimal.Decimal `json:"probability_a"`
	ProbabilityB    decimal.Decimal `json:"probability_b"`
	PayoutMultipleA decimal.Decimal `json:"payout_multiple_a"`
	PayoutMultipleB decimal.Decimal `json:"payout_multiple_b"`
}

// MarketDetailResponse is the cached read model of a market
type MarketDetailResponse struct {
	MarketResponse
	Odds                  Odds   `json:"odds"`
	StakeVaultBalance     uint64 `json:"stake_vault_balance"`
	LiquidityVaultBalance uint64 `json:"liquidity_vault_balance"`
}

// ToMarketResponse converts a market model to its response
func ToMarketResponse(m *models.Market) *MarketResponse {
	resp := &MarketResponse{
		ID:                     m.ID,
		Creator:                m.Creator,
		Oracle:                 m.Oracle,
		OracleFeeAccount:       m.OracleFeeAccount,
		Title:                  m.Title,
		Description:            m.Description,
		OutcomeA:               m.OutcomeA,
		OutcomeB:               m.OutcomeB,
		Status:                 m.Status,
		ResolutionDeadline:     m.ResolutionDeadline,
		ResolvedAt:             m.ResolvedAt,
		OracleFeeBps:           m.OracleFeeBps,
		PlatformFeeBps:         m.PlatformFeeBps,
		WithdrawalFeeBps:       m.WithdrawalFeeBps,
		StakeA:                 m.StakeA,
		StakeB:                 m.StakeB,
		TotalBets:              m.TotalBets,
		ReserveA:               m.ReserveA,
		ReserveB:               m.ReserveB,
		LPSupply:               m.LPSupply,
		LiquidityProviders:     m.LiquidityProviders,
		LiquidityFeesCollected: m.LiquidityFeesCollected,
		OracleFee:              m.OracleFee,
		PlatformFee:            m.PlatformFee,
		TotalPayoutPool:        m.TotalPayoutPool,
		WinningPool:            m.WinningPool,
		TotalClaimed:           m.TotalClaimed,
		CreatedAt:              m.CreatedAt,
	}
	if m.WinningOutcome != nil {
		resp.WinningOutcome = m.WinningOutcome.String()
	}
	return resp
}
