// Package events is the append-only observability channel of the engine.
// Emission never fails an operation and nothing in the engine reads events
// back.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind names a settlement event.
type Kind string

const (
	MarketCreated    Kind = "MarketCreated"
	MarketCancelled  Kind = "MarketCancelled"
	MarketDisputed   Kind = "MarketDisputed"
	BetPlaced        Kind = "BetPlaced"
	LiquidityAdded   Kind = "LiquidityAdded"
	LiquidityRemoved Kind = "LiquidityRemoved"
	MarketResolved   Kind = "MarketResolved"
	WinningsClaimed  Kind = "WinningsClaimed"
	RefundClaimed    Kind = "RefundClaimed"
)

// Event is one structured record. Data holds the kind-specific fields.
type Event struct {
	Kind      Kind                   `json:"kind"`
	MarketID  uuid.UUID              `json:"market_id"`
	Actor     string                 `json:"actor"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Sink accepts events. Implementations must not block the caller for long
// and must swallow their own delivery failures.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Emit(ctx context.Context, e Event) { f(ctx, e) }

type fanout []Sink

// Fanout delivers each event to every sink in order.
func Fanout(sinks ...Sink) Sink {
	out := make(fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (f fanout) Emit(ctx context.Context, e Event) {
	for _, s := range f {
		s.Emit(ctx, e)
	}
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(context.Context, Event) {})

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfKind filters recorded events.
func (r *Recorder) OfKind(k Kind) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Bus is a Sink whose subscribers can be attached after construction.
type Bus struct {
	mu    sync.RWMutex
	sinks []Sink
}

func NewBus(sinks ...Sink) *Bus {
	b := &Bus{}
	for _, s := range sinks {
		b.Subscribe(s)
	}
	return b
}

// Subscribe appends s to the delivery list.
func (b *Bus) Subscribe(s Sink) {
	if s == nil {
		return
	}
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

func (b *Bus) Emit(ctx context.Context, e Event) {
	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()
	for _, s := range sinks {
		s.Emit(ctx, e)
	}
}
