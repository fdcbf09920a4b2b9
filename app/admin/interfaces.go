package admin

import "context"

// Service toggles the platform-wide pause switch
type Service interface {
	Status(ctx context.Context) (*GateResponse, error)
	Pause(ctx context.Context, operator string) (*GateResponse, error)
	Resume(ctx context.Context, operator string) (*GateResponse, error)
}
