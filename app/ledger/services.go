package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/joefazee/settle/internal/logger"
	"github.com/joefazee/settle/models"
)

type service struct {
	ledger Ledger
	config *Config
	logger logger.Logger
}

func NewService(l Ledger, config *Config, log logger.Logger) Service {
	return &service{ledger: l, config: config, logger: log}
}

func (s *service) GetAccount(ctx context.Context, id string) (*AccountResponse, error) {
	acc, err := s.ledger.Account(ctx, id)
	if errors.Is(err, models.ErrAccountNotFound) {
		return &AccountResponse{ID: id, Kind: models.AccountKindHolder}, nil
	}
	if err != nil {
		return nil, err
	}
	return ToAccountResponse(acc), nil
}

func (s *service) Credit(ctx context.Context, req *CreditRequest) (*TransferResponse, error) {
	if req.Amount == 0 {
		return nil, models.ErrInvalidAmount
	}
	if req.Amount > s.config.MaxCreditAmount {
		return nil, fmt.Errorf("credit account: %w", models.ErrInvalidAmount)
	}

	entry, err := s.ledger.Credit(ctx, req.AccountID, req.Amount, Ref{Reason: models.TransferReasonCredit})
	if err != nil {
		return nil, fmt.Errorf("credit account: %w", err)
	}

	s.logger.Info("account credited", logger.Fields{
		"account_id": req.AccountID,
		"amount":     req.Amount,
	})
	return ToTransferResponse(entry), nil
}

func (s *service) History(ctx context.Context, id string, limit, offset int) ([]TransferResponse, error) {
	if limit <= 0 {
		limit = s.config.HistoryPageSize
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	transfers, err := s.ledger.History(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = *ToTransferResponse(&transfers[i])
	}
	return responses, nil
}
