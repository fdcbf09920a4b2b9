package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joefazee/settle/internal/logger"
)

const (
	// DefaultStream is the redis stream events are appended to.
	DefaultStream = "settle:events"
	// streamMaxLen caps the stream with approximate trimming.
	streamMaxLen int64 = 10000
)

// StreamSink appends events to a redis stream for external consumers.
type StreamSink struct {
	rdb     *redis.Client
	stream  string
	timeout time.Duration
	log     logger.Logger
}

func NewStreamSink(rdb *redis.Client, stream string, log logger.Logger) *StreamSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &StreamSink{rdb: rdb, stream: stream, timeout: 200 * time.Millisecond, log: log}
}

// Emit detaches from the caller's cancellation so a finished request does not
// drop its event.
func (s *StreamSink) Emit(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		s.log.Error(err, map[string]interface{}{"event": string(e.Kind)})
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	args := &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"kind":    string(e.Kind),
			"market":  e.MarketID.String(),
			"payload": payload,
		},
	}
	if err := s.rdb.XAdd(ctx, args).Err(); err != nil {
		s.log.Error(err, map[string]interface{}{
			"event":     string(e.Kind),
			"market_id": e.MarketID.String(),
			"stream":    s.stream,
		})
	}
}
