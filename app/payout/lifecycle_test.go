package payout_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/app/markets"
	"github.com/joefazee/settle/app/payout"
	"github.com/joefazee/settle/app/prediction"
	"github.com/joefazee/settle/app/resolution"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/sanitizer"
	"github.com/joefazee/settle/models"
	"github.com/joefazee/settle/tests/harness"
)

// LifecycleTestSuite drives one market from creation to the last claim
// through the services only.
type LifecycleTestSuite struct {
	suite.Suite
	env        *harness.Env
	ctx        context.Context
	markets    markets.Service
	prediction prediction.Service
	resolution resolution.Service
	payout     payout.Service
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleTestSuite))
}

func (s *LifecycleTestSuite) SetupTest() {
	s.env = harness.New(s.T())
	s.ctx = context.Background()
	lg := ledger.New(s.env.DB, s.env.Signer, ledger.GetDefaultConfig())

	s.markets = markets.NewService(markets.Dependencies{
		DB:        s.env.DB,
		Store:     s.env.Store,
		Ledger:    lg,
		Gate:      s.env.Gate,
		Clock:     s.env.Clock,
		Sanitizer: sanitizer.NewHTMLStripper(),
		Events:    s.env.Events,
		Logger:    s.env.Logger,
	}, markets.GetDefaultConfig(), nil)

	s.prediction = prediction.NewService(prediction.Dependencies{
		DB:     s.env.DB,
		Store:  s.env.Store,
		Ledger: lg,
		Gate:   s.env.Gate,
		Clock:  s.env.Clock,
		Events: s.env.Events,
		Logger: s.env.Logger,
	}, prediction.GetDefaultConfig())

	s.resolution = resolution.NewService(resolution.Dependencies{
		DB:     s.env.DB,
		Store:  s.env.Store,
		Ledger: lg,
		Signer: s.env.Signer,
		Gate:   s.env.Gate,
		Clock:  s.env.Clock,
		Events: s.env.Events,
		Logger: s.env.Logger,
	}, resolution.GetDefaultConfig())

	s.payout = payout.NewService(payout.Dependencies{
		DB:     s.env.DB,
		Store:  s.env.Store,
		Ledger: lg,
		Signer: s.env.Signer,
		Gate:   s.env.Gate,
		Clock:  s.env.Clock,
		Events: s.env.Events,
		Logger: s.env.Logger,
	}, payout.GetDefaultConfig())
}

// at moves the clock to start+d.
func (s *LifecycleTestSuite) at(d time.Duration) {
	s.env.Clock.Set(harness.Epoch.Add(d))
}

func (s *LifecycleTestSuite) TestResolveAndClaim() {
	oracleFee := uint64(100)

	m, err := s.markets.CreateMarket(s.ctx, "creator", &markets.CreateMarketRequest{
		Title:              "Will the bridge open before March?",
		OutcomeA:           "Yes",
		OutcomeB:           "No",
		Oracle:             "oracle",
		ResolutionDeadline: harness.Epoch.Add(100 * time.Minute),
		OracleFeeBps:       &oracleFee,
	})
	s.Require().NoError(err)

	s.env.Fund(s.T(), "x", 100)
	s.env.Fund(s.T(), "y", 300)

	s.at(10 * time.Minute)
	_, err = s.prediction.PlaceBet(s.ctx, m.ID, "x", &prediction.PlaceBetRequest{Outcome: "A", Amount: 100})
	s.Require().NoError(err)

	s.at(20 * time.Minute)
	_, err = s.prediction.PlaceBet(s.ctx, m.ID, "y", &prediction.PlaceBetRequest{Outcome: "B", Amount: 300})
	s.Require().NoError(err)

	s.at(100 * time.Minute)
	res, err := s.resolution.Resolve(s.ctx, m.ID, "oracle", &resolution.ResolveRequest{Outcome: "A", Evidence: "ministry notice 14"})
	s.Require().NoError(err)
	s.Equal(uint64(400), res.TotalPool)
	s.Equal(uint64(4), res.OracleFee)
	s.Equal(uint64(396), res.PayoutPool)
	s.Equal(uint64(100), res.WinningPool)
	s.Equal(uint64(4), s.env.Balance(s.T(), "oracle"))

	claim, err := s.payout.ClaimWinnings(s.ctx, m.ID, "x")
	s.Require().NoError(err)
	s.Equal(uint64(396), claim.Amount)
	s.Equal(uint64(396), s.env.Balance(s.T(), "x"))

	_, err = s.payout.ClaimWinnings(s.ctx, m.ID, "y")
	s.ErrorIs(err, models.ErrNotAWinner)
	s.Zero(s.env.Balance(s.T(), "y"))

	_, err = s.payout.ClaimWinnings(s.ctx, m.ID, "x")
	s.ErrorIs(err, models.ErrAlreadyClaimed)

	stored := s.env.Market(s.T(), m.ID)
	s.Equal(models.MarketStatusResolved, stored.Status)
	s.Equal(uint64(396), stored.TotalClaimed)
	s.Zero(s.env.VaultBalance(s.T(), m.ID, authority.VaultStakes))

	s.Len(s.env.Events.OfKind(events.BetPlaced), 2)
	s.Len(s.env.Events.OfKind(events.MarketResolved), 1)
	s.Len(s.env.Events.OfKind(events.WinningsClaimed), 1)
}

func (s *LifecycleTestSuite) TestCreatorCannotCancelAfterBetting() {
	m, err := s.markets.CreateMarket(s.ctx, "creator", &markets.CreateMarketRequest{
		Title:              "Will the bridge open before March?",
		OutcomeA:           "Yes",
		OutcomeB:           "No",
		Oracle:             "oracle",
		ResolutionDeadline: harness.Epoch.Add(100 * time.Minute),
	})
	s.Require().NoError(err)

	s.env.Fund(s.T(), "creator", 100)
	s.env.Fund(s.T(), "y", 300)
	_, err = s.prediction.PlaceBet(s.ctx, m.ID, "creator", &prediction.PlaceBetRequest{Outcome: "A", Amount: 100})
	s.Require().NoError(err)
	_, err = s.prediction.PlaceBet(s.ctx, m.ID, "y", &prediction.PlaceBetRequest{Outcome: "B", Amount: 300})
	s.Require().NoError(err)

	s.at(101 * time.Minute)
	_, err = s.markets.CancelMarket(s.ctx, m.ID, "creator", false, &markets.StatusChangeRequest{Reason: "losing"})
	s.ErrorIs(err, models.ErrCreatorWindowClosed)

	_, err = s.payout.ClaimRefund(s.ctx, m.ID, "creator")
	s.ErrorIs(err, models.ErrMarketNotCancelled)
	s.Zero(s.env.Balance(s.T(), "creator"))
	s.Equal(uint64(400), s.env.VaultBalance(s.T(), m.ID, authority.VaultStakes))
}
