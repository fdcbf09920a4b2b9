package models

import (
	"errors"

	"github.com/joefazee/settle/internal/mathx"
)

var (
	ErrInvalidMarketTitle       = errors.New("invalid market title")
	ErrInvalidMarketDescription = errors.New("invalid market description")
	ErrInvalidOutcomeLabel      = errors.New("invalid outcome label")
	ErrInvalidIdentity          = errors.New("invalid identity")
	ErrInvalidDeadline          = errors.New("resolution deadline must be in the future")
	ErrInvalidMarketDuration    = errors.New("market duration outside allowed range")
	ErrInvalidFeeRate           = errors.New("invalid fee rate")
	ErrInvalidAmount            = errors.New("amount must be greater than zero")
	ErrInvalidOutcome           = errors.New("invalid outcome")
	ErrInvalidOracleData        = errors.New("invalid oracle data")
	ErrInvalidWithdrawalAmount  = errors.New("withdrawal amount rounds to zero")
	ErrBetTooSmall              = errors.New("bet amount below minimum")
	ErrBetTooLarge              = errors.New("bet amount exceeds maximum")
	ErrInvalidAccountID         = errors.New("invalid account id")

	ErrMarketNotActive       = errors.New("market is not active")
	ErrMarketAlreadyResolved = errors.New("market is already resolved")
	ErrMarketNotExpired      = errors.New("market has not reached its resolution deadline")
	ErrMarketNotResolved     = errors.New("market is not resolved")
	ErrMarketNotCancelled    = errors.New("market is not cancelled")
	ErrMarketNotSettled      = errors.New("market is neither resolved nor cancelled")
	ErrInvalidTransition     = errors.New("invalid market status transition")

	ErrInvalidOracle       = errors.New("caller is not the market oracle")
	ErrCreatorIsOracle     = errors.New("market creator cannot be the oracle")
	ErrNotAuthority        = errors.New("caller is not the market authority")
	ErrCreatorWindowClosed = errors.New("market has participants or reached its deadline")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidGrant        = errors.New("vault authority grant is invalid")

	ErrOutcomeMismatch             = errors.New("position is bound to a different outcome")
	ErrInsufficientBalance         = errors.New("insufficient balance")
	ErrInsufficientShares          = errors.New("insufficient liquidity shares")
	ErrNoLiquidity                 = errors.New("no liquidity in pool")
	ErrInsufficientPoolBalance     = errors.New("insufficient pool balance")
	ErrInsufficientLiquidityMinted = errors.New("deposit too small to mint liquidity shares")
	ErrNotAWinner                  = errors.New("position did not back the winning outcome")
	ErrNoWinnings                  = errors.New("no winnings to claim")
	ErrAlreadyClaimed              = errors.New("position already claimed")

	ErrInsufficientVaultFunds = errors.New("payout exceeds available pooled balance")

	ErrRecordNotFound   = errors.New("record not found")
	ErrMarketNotFound   = errors.New("market not found")
	ErrPositionNotFound = errors.New("position not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrRecordExists     = errors.New("record already exists")
	ErrMarketExists     = errors.New("market already exists")

	ErrPlatformPaused = errors.New("platform is paused")

	ErrDatabaseCredentialNotConfigured = errors.New("database credentials not configured")
	ErrInvalidDatabaseDriver           = errors.New("unsupported database driver")
	ErrInvalidBetAmountLimits          = errors.New("invalid bet amount limits")
	ErrInvalidDepositLimits            = errors.New("invalid liquidity deposit limits")
	ErrInvalidMinBetDivisor            = errors.New("liquidity minimum bet divisor must be positive")
	ErrInvalidCacheTTL                 = errors.New("cache ttl must be positive")
	ErrInvalidTreasuryAccount          = errors.New("treasury account must be set")
	ErrInvalidCreditLimit              = errors.New("credit limit must be positive")
	ErrInvalidPageSize                 = errors.New("page size must be between 1 and 100")
	ErrInvalidRateLimit                = errors.New("rate limit must be positive")
	ErrInvalidEvidenceLimit            = errors.New("evidence limit must be between 1 and 256 bytes")
)

// ErrorKind groups errors by how a caller should react to them.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindState         ErrorKind = "state"
	KindAuthorization ErrorKind = "authorization"
	KindArithmetic    ErrorKind = "arithmetic"
	KindEconomic      ErrorKind = "economic"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindUnavailable   ErrorKind = "unavailable"
	KindFatal         ErrorKind = "fatal"
	KindUnknown       ErrorKind = "unknown"
)

type classified struct {
	err  error
	kind ErrorKind
	code string
}

// Order matters: the first match wins, so specific sentinels come before
// anything they might wrap.
var taxonomy = []classified{
	{ErrInvalidMarketTitle, KindValidation, "INVALID_MARKET_TITLE"},
	{ErrInvalidMarketDescription, KindValidation, "INVALID_MARKET_DESCRIPTION"},
	{ErrInvalidOutcomeLabel, KindValidation, "INVALID_OUTCOME_LABEL"},
	{ErrInvalidIdentity, KindValidation, "INVALID_IDENTITY"},
	{ErrInvalidDeadline, KindValidation, "INVALID_DEADLINE"},
	{ErrInvalidMarketDuration, KindValidation, "INVALID_MARKET_DURATION"},
	{ErrInvalidFeeRate, KindValidation, "INVALID_FEE_RATE"},
	{ErrInvalidAmount, KindValidation, "INVALID_AMOUNT"},
	{ErrInvalidOutcome, KindValidation, "INVALID_OUTCOME"},
	{ErrInvalidOracleData, KindValidation, "INVALID_ORACLE_DATA"},
	{ErrInvalidWithdrawalAmount, KindValidation, "INVALID_WITHDRAWAL_AMOUNT"},
	{ErrBetTooSmall, KindValidation, "BET_TOO_SMALL"},
	{ErrBetTooLarge, KindValidation, "BET_TOO_LARGE"},
	{ErrInvalidAccountID, KindValidation, "INVALID_ACCOUNT_ID"},

	{ErrMarketNotActive, KindState, "MARKET_NOT_ACTIVE"},
	{ErrMarketAlreadyResolved, KindState, "MARKET_ALREADY_RESOLVED"},
	{ErrMarketNotExpired, KindState, "MARKET_NOT_EXPIRED"},
	{ErrMarketNotResolved, KindState, "MARKET_NOT_RESOLVED"},
	{ErrMarketNotCancelled, KindState, "MARKET_NOT_CANCELLED"},
	{ErrMarketNotSettled, KindState, "MARKET_NOT_SETTLED"},
	{ErrInvalidTransition, KindState, "INVALID_TRANSITION"},

	{ErrInvalidOracle, KindAuthorization, "INVALID_ORACLE"},
	{ErrCreatorIsOracle, KindAuthorization, "CREATOR_IS_ORACLE"},
	{ErrNotAuthority, KindAuthorization, "NOT_MARKET_AUTHORITY"},
	{ErrCreatorWindowClosed, KindAuthorization, "CREATOR_WINDOW_CLOSED"},
	{ErrUnauthorized, KindAuthorization, "UNAUTHORIZED"},
	{ErrForbidden, KindAuthorization, "FORBIDDEN"},
	{ErrInvalidGrant, KindAuthorization, "INVALID_GRANT"},

	{mathx.ErrOverflow, KindArithmetic, "MATH_OVERFLOW"},
	{mathx.ErrUnderflow, KindArithmetic, "MATH_UNDERFLOW"},
	{mathx.ErrDivisionByZero, KindArithmetic, "DIVISION_BY_ZERO"},
	{mathx.ErrInvalidBps, KindValidation, "INVALID_FEE_RATE"},

	{ErrOutcomeMismatch, KindEconomic, "OUTCOME_MISMATCH"},
	{ErrInsufficientBalance, KindEconomic, "INSUFFICIENT_BALANCE"},
	{ErrInsufficientShares, KindEconomic, "INSUFFICIENT_SHARES"},
	{ErrNoLiquidity, KindEconomic, "NO_LIQUIDITY"},
	{ErrInsufficientPoolBalance, KindEconomic, "INSUFFICIENT_POOL_BALANCE"},
	{ErrInsufficientLiquidityMinted, KindEconomic, "INSUFFICIENT_LIQUIDITY_MINTED"},
	{ErrNotAWinner, KindEconomic, "NOT_A_WINNER"},
	{ErrNoWinnings, KindEconomic, "NO_WINNINGS"},
	{ErrAlreadyClaimed, KindEconomic, "ALREADY_CLAIMED"},

	{ErrInsufficientVaultFunds, KindFatal, "INVARIANT_VIOLATION"},

	{ErrMarketNotFound, KindNotFound, "MARKET_NOT_FOUND"},
	{ErrPositionNotFound, KindNotFound, "POSITION_NOT_FOUND"},
	{ErrAccountNotFound, KindNotFound, "ACCOUNT_NOT_FOUND"},
	{ErrRecordNotFound, KindNotFound, "NOT_FOUND"},
	{ErrMarketExists, KindConflict, "MARKET_EXISTS"},
	{ErrRecordExists, KindConflict, "RECORD_EXISTS"},

	{ErrPlatformPaused, KindUnavailable, "PLATFORM_PAUSED"},
}

func classify(err error) (classified, bool) {
	if err == nil {
		return classified{}, false
	}
	for _, c := range taxonomy {
		if errors.Is(err, c.err) {
			return c, true
		}
	}
	return classified{}, false
}

// KindOf reports the category of err, or KindUnknown.
func KindOf(err error) ErrorKind {
	if c, ok := classify(err); ok {
		return c.kind
	}
	return KindUnknown
}

// CodeOf returns a stable machine-readable code for err.
func CodeOf(err error) string {
	if c, ok := classify(err); ok {
		return c.code
	}
	return "INTERNAL_ERROR"
}

// IsFatal reports whether err signals a broken accounting invariant.
func IsFatal(err error) bool {
	return KindOf(err) == KindFatal
}
