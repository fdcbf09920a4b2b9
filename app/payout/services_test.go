package payout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/events"
	applog "github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/models"
	"github.com/joefazee/settle/tests/harness"
)

type PayoutServiceTestSuite struct {
	suite.Suite
	env     *harness.Env
	config  *Config
	service Service
	market  *models.Market
	ctx     context.Context
}

func TestPayoutServiceSuite(t *testing.T) {
	suite.Run(t, new(PayoutServiceTestSuite))
}

func (s *PayoutServiceTestSuite) SetupTest() {
	s.env = harness.New(s.T())
	s.ctx = context.Background()
	s.config = GetDefaultConfig()
	s.service = NewService(Dependencies{
		DB:     s.env.DB,
		Store:  s.env.Store,
		Ledger: ledger.New(s.env.DB, s.env.Signer, ledger.GetDefaultConfig()),
		Signer: s.env.Signer,
		Gate:   s.env.Gate,
		Clock:  s.env.Clock,
		Events: s.env.Events,
		Logger: s.env.Logger,
	}, s.config)

	// 600 staked, 1% oracle fee already paid out of the vault.
	s.market = s.resolved(594, map[string]bet{
		"alice": {models.OutcomeA, 100},
		"carol": {models.OutcomeA, 200},
		"bob":   {models.OutcomeB, 300},
	})
}

type bet struct {
	outcome models.Outcome
	amount  uint64
}

// resolved seeds a market resolved on A with the given positions and a
// stake vault holding payoutPool.
func (s *PayoutServiceTestSuite) resolved(payoutPool uint64, bets map[string]bet) *models.Market {
	a := models.OutcomeA
	m := s.seed(models.MarketStatusResolved, bets, func(m *models.Market) {
		m.WinningOutcome = &a
		m.TotalPayoutPool = payoutPool
		m.WinningPool = m.StakeA
	})
	s.env.FundVault(s.T(), m.ID, authority.VaultStakes, payoutPool)
	return m
}

func (s *PayoutServiceTestSuite) seed(status models.MarketStatus, bets map[string]bet, mutate func(m *models.Market)) *models.Market {
	m := s.env.SeedMarket(s.T(), func(m *models.Market) {
		m.Status = status
		for _, b := range bets {
			m.SetStake(b.outcome, m.Stake(b.outcome)+b.amount)
		}
		if mutate != nil {
			mutate(m)
		}
	})
	for owner, b := range bets {
		p := models.NewPosition(m.ID, owner, b.outcome)
		p.Amount = b.amount
		s.Require().NoError(s.env.Store.CreatePosition(s.ctx, p))
	}
	return m
}

func (s *PayoutServiceTestSuite) vault(m *models.Market) uint64 {
	return s.env.VaultBalance(s.T(), m.ID, authority.VaultStakes)
}

func (s *PayoutServiceTestSuite) TestClaimWinnings() {
	resp, err := s.service.ClaimWinnings(s.ctx, s.market.ID, "alice")
	s.Require().NoError(err)
	s.Equal(ClaimKindWinnings, resp.Kind)
	s.Equal(uint64(100), resp.Stake)
	s.Equal(uint64(198), resp.Amount)

	s.Equal(uint64(198), s.env.Balance(s.T(), "alice"))
	s.Equal(uint64(396), s.vault(s.market))
	s.Equal(uint64(198), s.env.Market(s.T(), s.market.ID).TotalClaimed)

	p, err := s.env.Store.GetPosition(s.ctx, s.market.ID, "alice")
	s.Require().NoError(err)
	s.True(p.Claimed)
	s.Equal(uint64(198), p.WinningsClaimed)
	s.Require().NotNil(p.ClaimedAt)

	claimed := s.env.Events.OfKind(events.WinningsClaimed)
	s.Require().Len(claimed, 1)
	s.Equal("alice", claimed[0].Actor)
	s.Equal(uint64(198), claimed[0].Data["amount"])
}

func (s *PayoutServiceTestSuite) TestClaimWinnings_NoDoubleClaim() {
	_, err := s.service.ClaimWinnings(s.ctx, s.market.ID, "carol")
	s.Require().NoError(err)

	_, err = s.service.ClaimWinnings(s.ctx, s.market.ID, "carol")
	s.ErrorIs(err, models.ErrAlreadyClaimed)

	s.Equal(uint64(396), s.env.Balance(s.T(), "carol"))
	s.Equal(uint64(198), s.vault(s.market))
	s.Equal(uint64(396), s.env.Market(s.T(), s.market.ID).TotalClaimed)
	s.Len(s.env.Events.OfKind(events.WinningsClaimed), 1)

	p, err := s.env.Store.GetPosition(s.ctx, s.market.ID, "carol")
	s.Require().NoError(err)
	s.Equal(uint64(396), p.WinningsClaimed)
}

func (s *PayoutServiceTestSuite) TestClaimWinnings_Rejections() {
	_, err := s.service.ClaimWinnings(s.ctx, s.market.ID, "bob")
	s.ErrorIs(err, models.ErrNotAWinner)

	_, err = s.service.ClaimWinnings(s.ctx, s.market.ID, "dave")
	s.ErrorIs(err, models.ErrPositionNotFound)

	active := s.seed(models.MarketStatusActive, map[string]bet{"alice": {models.OutcomeA, 10}}, nil)
	_, err = s.service.ClaimWinnings(s.ctx, active.ID, "alice")
	s.ErrorIs(err, models.ErrMarketNotResolved)

	s.Equal(uint64(594), s.vault(s.market))
	s.Zero(s.env.Market(s.T(), s.market.ID).TotalClaimed)
	s.Empty(s.env.Events.Events())
}

// Every winner claims; the total never exceeds the pool and rounding dust
// stays in the vault.
func (s *PayoutServiceTestSuite) TestClaimWinnings_PayoutBound() {
	m := s.resolved(10, map[string]bet{
		"alice": {models.OutcomeA, 1},
		"carol": {models.OutcomeA, 1},
		"erin":  {models.OutcomeA, 1},
		"bob":   {models.OutcomeB, 8},
	})

	var paid uint64
	for _, who := range []string{"alice", "carol", "erin"} {
		resp, err := s.service.ClaimWinnings(s.ctx, m.ID, who)
		s.Require().NoError(err)
		s.Equal(uint64(3), resp.Amount)
		paid += resp.Amount
	}

	reloaded := s.env.Market(s.T(), m.ID)
	s.Equal(paid, reloaded.TotalClaimed)
	s.LessOrEqual(reloaded.TotalClaimed, reloaded.TotalPayoutPool)
	s.Equal(uint64(1), s.vault(m))
}

func (s *PayoutServiceTestSuite) TestClaimWinnings_ShortVaultIsFatal() {
	m := s.seed(models.MarketStatusResolved, map[string]bet{"alice": {models.OutcomeA, 100}}, func(m *models.Market) {
		a := models.OutcomeA
		m.WinningOutcome = &a
		m.TotalPayoutPool = 100
		m.WinningPool = 100
	})
	s.env.FundVault(s.T(), m.ID, authority.VaultStakes, 40)

	_, err := s.service.ClaimWinnings(s.ctx, m.ID, "alice")
	s.ErrorIs(err, models.ErrInsufficientVaultFunds)
	s.True(models.IsFatal(err))

	s.Zero(s.env.Balance(s.T(), "alice"))
	s.Equal(uint64(40), s.vault(m))
	p, err := s.env.Store.GetPosition(s.ctx, m.ID, "alice")
	s.Require().NoError(err)
	s.False(p.Claimed)

	logged := s.env.Logger.ByLevel(applog.LevelError)
	s.Require().Len(logged, 1)
	s.Equal("payout_bound", logged[0].Fields["invariant"])
	s.Equal(m.ID, logged[0].Fields["market_id"])
	s.Equal(uint64(40), logged[0].Fields["vault_balance"])
	s.Equal(uint64(100), logged[0].Fields["amount"])
}

func (s *PayoutServiceTestSuite) TestClaimWinnings_StrictInvariantsPanic() {
	m := s.seed(models.MarketStatusResolved, map[string]bet{"alice": {models.OutcomeA, 100}}, func(m *models.Market) {
		a := models.OutcomeA
		m.WinningOutcome = &a
		m.TotalPayoutPool = 100
		m.WinningPool = 100
		m.TotalClaimed = 50
	})
	s.env.FundVault(s.T(), m.ID, authority.VaultStakes, 100)
	s.config.StrictInvariants = true

	s.Panics(func() {
		_, _ = s.service.ClaimWinnings(s.ctx, m.ID, "alice")
	})
	s.Equal(uint64(100), s.vault(m))
}

func (s *PayoutServiceTestSuite) TestClaimRefund() {
	m := s.seed(models.MarketStatusCancelled, map[string]bet{
		"alice": {models.OutcomeA, 100},
		"bob":   {models.OutcomeB, 300},
	}, nil)
	s.env.FundVault(s.T(), m.ID, authority.VaultStakes, 400)

	resp, err := s.service.ClaimRefund(s.ctx, m.ID, "bob")
	s.Require().NoError(err)
	s.Equal(ClaimKindRefund, resp.Kind)
	s.Equal(uint64(300), resp.Amount)
	s.Equal(uint64(300), s.env.Balance(s.T(), "bob"))
	s.Equal(uint64(100), s.vault(m))
	s.Zero(s.env.Market(s.T(), m.ID).TotalClaimed)

	_, err = s.service.ClaimRefund(s.ctx, m.ID, "bob")
	s.ErrorIs(err, models.ErrAlreadyClaimed)

	_, err = s.service.ClaimRefund(s.ctx, m.ID, "alice")
	s.Require().NoError(err)
	s.Zero(s.vault(m))
	s.Len(s.env.Events.OfKind(events.RefundClaimed), 2)

	_, err = s.service.ClaimWinnings(s.ctx, m.ID, "alice")
	s.ErrorIs(err, models.ErrMarketNotResolved)
}

func (s *PayoutServiceTestSuite) TestClaimRefund_RequiresCancelled() {
	_, err := s.service.ClaimRefund(s.ctx, s.market.ID, "bob")
	s.ErrorIs(err, models.ErrMarketNotCancelled)
	s.Equal(uint64(594), s.vault(s.market))
}

func (s *PayoutServiceTestSuite) TestPaused() {
	s.Require().NoError(s.env.Gate.Pause(s.ctx))

	_, err := s.service.ClaimWinnings(s.ctx, s.market.ID, "alice")
	s.ErrorIs(err, models.ErrPlatformPaused)
	_, err = s.service.ClaimRefund(s.ctx, s.market.ID, "alice")
	s.ErrorIs(err, models.ErrPlatformPaused)
}
