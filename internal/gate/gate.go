// Package gate holds the platform-wide pause switch consulted before every
// mutating operation.
package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/joefazee/settle/internal/cache"
	"github.com/joefazee/settle/models"
)

const pausedKey = "gate:paused"

// Gate reports whether mutating operations may proceed.
type Gate interface {
	Check(ctx context.Context) error
	Paused(ctx context.Context) (bool, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

type cachedGate struct {
	store    cache.Cache[bool]
	fallback bool
}

// New returns a gate whose flag lives in store. When the flag has never been
// written the gate reports initial.
func New(store cache.Cache[bool], initial bool) Gate {
	return &cachedGate{store: store, fallback: initial}
}

func (g *cachedGate) Paused(ctx context.Context) (bool, error) {
	paused, err := g.store.Get(ctx, pausedKey)
	if errors.Is(err, cache.ErrCacheMiss) {
		return g.fallback, nil
	}
	if err != nil {
		return false, fmt.Errorf("read pause flag: %w", err)
	}
	return paused, nil
}

// Check fails closed: an unreadable flag blocks the operation.
func (g *cachedGate) Check(ctx context.Context) error {
	paused, err := g.Paused(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrPlatformPaused, err)
	}
	if paused {
		return models.ErrPlatformPaused
	}
	return nil
}

func (g *cachedGate) Pause(ctx context.Context) error {
	return g.store.Set(ctx, pausedKey, true, 0)
}

func (g *cachedGate) Resume(ctx context.Context) error {
	return g.store.Set(ctx, pausedKey, false, 0)
}

// Open is a gate that never blocks.
type Open struct{}

func (Open) Check(context.Context) error { return nil }
func (Open) Paused(context.Context) (bool, error) { return false, nil }
func (Open) Pause(context.Context) error { return nil }
func (Open) Resume(context.Context) error { return nil }
