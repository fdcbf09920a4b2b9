package liquidity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joefazee/settle/app/ledger"
	"github.com/joefazee/settle/internal/authority"
	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/events"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/internal/mathx"
	"github.com/joefazee/settle/internal/store"
	"github.com/joefazee/settle/models"
)

// Dependencies represents the collaborators of the liquidity service
type Dependencies struct {
	DB     *gorm.DB
	Store  store.Store
	Ledger ledger.Ledger
	Signer *authority.Signer
	Gate   gate.Gate
	Clock  clock.Clock
	Events events.Sink
	Logger logger.Logger
}

type service struct {
	Dependencies
	config *Config
}

// NewService creates a new liquidity service
func NewService(d Dependencies, config *Config) Service {
	return &service{Dependencies: d, config: config}
}

func (s *service) AddLiquidity(ctx context.Context, marketID uuid.UUID, provider string, req *AddLiquidityRequest) (*DepositResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}
	amount := req.Amount
	if amount == 0 || amount < s.config.MinDepositAmount || amount > s.config.MaxDepositAmount {
		return nil, fmt.Errorf("add liquidity: %w", models.ErrInvalidAmount)
	}

	var resp *DepositResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.Store.WithTx(tx)
		lg := s.Ledger.WithTx(tx)

		market, err := st.LockMarket(ctx, marketID)
		if err != nil {
			return err
		}
		if err := market.EnsureActive(); err != nil {
			return err
		}

		amountA, amountB, err := SplitDeposit(amount, market.ReserveA, market.ReserveB)
		if err != nil {
			return err
		}
		shares, err := SharesToMint(amount, market.LPSupply, market.ReserveA+market.ReserveB)
		if err != nil {
			return err
		}

		vault := authority.Account(marketID, authority.VaultLiquidity)
		if _, err := lg.Transfer(ctx, provider, vault, amount, ledger.MarketRef(models.TransferReasonLiquidityDeposit, marketID)); err != nil {
			return err
		}

		lp, created, err := s.loadOrCreatePosition(ctx, st, marketID, provider)
		if err != nil {
			return err
		}
		if lp.Shares, err = mathx.Add(lp.Shares, shares); err != nil {
			return err
		}
		if lp.TotalDeposited, err = mathx.Add(lp.TotalDeposited, amount); err != nil {
			return err
		}

		if market.ReserveA, err = mathx.Add(market.ReserveA, amountA); err != nil {
			return err
		}
		if market.ReserveB, err = mathx.Add(market.ReserveB, amountB); err != nil {
			return err
		}
		if market.LPSupply, err = mathx.Add(market.LPSupply, shares); err != nil {
			return err
		}
		if created {
			if market.LiquidityProviders, err = mathx.Inc(market.LiquidityProviders); err != nil {
				return err
			}
		}

		if err := st.SaveLiquidityPosition(ctx, lp); err != nil {
			return err
		}
		if err := st.SaveMarket(ctx, market); err != nil {
			return err
		}

		resp = &DepositResponse{
			MarketID:     marketID,
			Provider:     provider,
			Amount:       amount,
			AmountA:      amountA,
			AmountB:      amountB,
			SharesMinted: shares,
			Shares:       lp.Shares,
			LPSupply:     market.LPSupply,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add liquidity: %w", err)
	}

	s.Logger.Info("liquidity added", logger.Fields{
		"market_id": marketID,
		"provider":  provider,
		"amount":    amount,
		"shares":    resp.SharesMinted,
	})
	s.Events.Emit(ctx, events.Event{
		Kind:     events.LiquidityAdded,
		MarketID: marketID,
		Actor:    provider,
		Data: map[string]interface{}{
			"amount":        amount,
			"amount_a":      resp.AmountA,
			"amount_b":      resp.AmountB,
			"shares_minted": resp.SharesMinted,
		},
		Timestamp: s.Clock.Now(),
	})
	return resp, nil
}

func (s *service) loadOrCreatePosition(ctx context.Context, st store.Store, marketID uuid.UUID, provider string) (*models.LiquidityPosition, bool, error) {
	lp, err := st.GetLiquidityPosition(ctx, marketID, provider)
	if err == nil {
		return lp, false, nil
	}
	if !errors.Is(err, models.ErrPositionNotFound) {
		return nil, false, err
	}

	lp = &models.LiquidityPosition{MarketID: marketID, Provider: provider}
	if err := st.CreateLiquidityPosition(ctx, lp); err != nil {
		return nil, false, err
	}
	return lp, true, nil
}

func (s *service) RemoveLiquidity(ctx context.Context, marketID uuid.UUID, provider string, req *WithdrawLiquidityRequest) (*WithdrawalResponse, error) {
	resp, err := s.withdraw(ctx, marketID, provider, req.Shares, false)
	if err != nil {
		return nil, fmt.Errorf("remove liquidity: %w", err)
	}
	return resp, nil
}

func (s *service) RedeemLiquidity(ctx context.Context, marketID uuid.UUID, provider string, req *WithdrawLiquidityRequest) (*WithdrawalResponse, error) {
	resp, err := s.withdraw(ctx, marketID, provider, req.Shares, true)
	if err != nil {
		return nil, fmt.Errorf("redeem liquidity: %w", err)
	}
	return resp, nil
}

// withdraw burns lpShares. While the market is active the withdrawal fee is
// charged and stays in the pool; once it is settled shares redeem at par.
func (s *service) withdraw(ctx context.Context, marketID uuid.UUID, provider string, lpShares uint64, settled bool) (*WithdrawalResponse, error) {
	if err := s.Gate.Check(ctx); err != nil {
		return nil, err
	}
	if lpShares == 0 {
		return nil, models.ErrInvalidAmount
	}

	var resp *WithdrawalResponse
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		st := s.Store.WithTx(tx)
		lg := s.Ledger.WithTx(tx)

		market, err := st.LockMarket(ctx, marketID)
		if err != nil {
			return err
		}
		feeBps := market.WithdrawalFeeBps
		if settled {
			if err := market.EnsureSettled(); err != nil {
				return err
			}
			feeBps = 0
		} else if err := market.EnsureActive(); err != nil {
			return err
		}

		lp, err := st.GetLiquidityPosition(ctx, marketID, provider)
		if errors.Is(err, models.ErrPositionNotFound) {
			return models.ErrInsufficientShares
		}
		if err != nil {
			return err
		}
		if err := lp.CanRedeem(lpShares); err != nil {
			return err
		}

		vault := authority.Account(marketID, authority.VaultLiquidity)
		poolBalance, err := lg.Balance(ctx, vault)
		if err != nil {
			return err
		}
		quote, err := QuoteWithdrawal(lpShares, poolBalance, market.LPSupply, feeBps)
		if err != nil {
			return err
		}
		fromA, fromB, err := SplitWithdrawal(quote.Net, market.ReserveA, market.ReserveB)
		if err != nil {
			return err
		}

		grant, err := s.Signer.Derive(marketID, authority.VaultLiquidity)
		if err != nil {
			return err
		}
		if _, err := lg.Release(ctx, grant, provider, quote.Net, ledger.MarketRef(models.TransferReasonLiquidityWithdrawal, marketID)); err != nil {
			return err
		}

		market.ReserveA -= fromA
		market.ReserveB -= fromB
		market.LPSupply -= lpShares
		if market.LiquidityFeesCollected, err = mathx.Add(market.LiquidityFeesCollected, quote.Fee); err != nil {
			return err
		}
		lp.Shares -= lpShares
		if lp.TotalWithdrawn, err = mathx.Add(lp.TotalWithdrawn, quote.Net); err != nil {
			return err
		}

		if err := st.SaveLiquidityPosition(ctx, lp); err != nil {
			return err
		}
		if err := st.SaveMarket(ctx, market); err != nil {
			return err
		}

		resp = &WithdrawalResponse{
			MarketID:     marketID,
			Provider:     provider,
			SharesBurned: lpShares,
			Gross:        quote.Gross,
			Fee:          quote.Fee,
			Net:          quote.Net,
			Shares:       lp.Shares,
			LPSupply:     market.LPSupply,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Info("liquidity removed", logger.Fields{
		"market_id": marketID,
		"provider":  provider,
		"shares":    lpShares,
		"net":       resp.Net,
		"fee":       resp.Fee,
		"settled":   settled,
	})
	s.Events.Emit(ctx, events.Event{
		Kind:     events.LiquidityRemoved,
		MarketID: marketID,
		Actor:    provider,
		Data: map[string]interface{}{
			"lp_shares": lpShares,
			"net":       resp.Net,
			"fee":       resp.Fee,
			"redeemed":  settled,
		},
		Timestamp: s.Clock.Now(),
	})
	return resp, nil
}

func (s *service) GetLiquidityPosition(ctx context.Context, marketID uuid.UUID, provider string) (*PositionResponse, error) {
	market, err := s.Store.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}
	lp, err := s.Store.GetLiquidityPosition(ctx, marketID, provider)
	if err != nil {
		return nil, err
	}

	var value uint64
	if lp.Shares > 0 && market.LPSupply > 0 {
		balance, err := s.Ledger.Balance(ctx, authority.Account(marketID, authority.VaultLiquidity))
		if err != nil {
			return nil, err
		}
		if value, err = mathx.MulDiv(lp.Shares, balance, market.LPSupply); err != nil {
			return nil, err
		}
	}
	return ToPositionResponse(lp, value), nil
}
