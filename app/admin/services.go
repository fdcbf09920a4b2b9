package admin

import (
	"context"
	"fmt"

	"github.com/joefazee/settle/internal/clock"
	"github.com/joefazee/settle/internal/gate"
	"github.com/joefazee/settle/internal/logger"
)

type service struct {
	gate   gate.Gate
	clock  clock.Clock
	logger logger.Logger
}

// NewService creates a new admin service
func NewService(g gate.Gate, c clock.Clock, log logger.Logger) Service {
	return &service{gate: g, clock: c, logger: log}
}

func (s *service) Status(ctx context.Context) (*GateResponse, error) {
	paused, err := s.gate.Paused(ctx)
	if err != nil {
		return nil, fmt.Errorf("platform status: %w", err)
	}
	return &GateResponse{Paused: paused, CheckedAt: s.clock.Now()}, nil
}

func (s *service) Pause(ctx context.Context, operator string) (*GateResponse, error) {
	if err := s.gate.Pause(ctx); err != nil {
		return nil, fmt.Errorf("pause platform: %w", err)
	}
	s.logger.Info("platform paused", logger.Fields{"operator": operator})
	return s.Status(ctx)
}

func (s *service) Resume(ctx context.Context, operator string) (*GateResponse, error) {
	if err := s.gate.Resume(ctx); err != nil {
		return nil, fmt.Errorf("resume platform: %w", err)
	}
	s.logger.Info("platform resumed", logger.Fields{"operator": operator})
	return s.Status(ctx)
}
