package events

import (
	"context"

	"github.com/joefazee/settle/internal/logger"
)

// LogSink writes each event as a structured log line.
type LogSink struct {
	log logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Emit(_ context.Context, e Event) {
	fields := make(map[string]interface{}, len(e.Data)+4)
	for k, v := range e.Data {
		fields[k] = v
	}
	fields["event"] = string(e.Kind)
	fields["market_id"] = e.MarketID.String()
	fields["actor"] = e.Actor
	fields["event_ts"] = e.Timestamp.Unix()
	s.log.Info("settlement event", fields)
}
