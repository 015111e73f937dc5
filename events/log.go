package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. Used when no broker is
// configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, event OrderEvent) error {
	p.log.InfoContext(ctx, "order event",
		slog.String("action", event.Type),
		slog.Uint64("order_id", uint64(event.OrderID)),
		slog.String("old_status", string(event.OldStatus)),
		slog.String("new_status", string(event.NewStatus)),
		slog.Uint64("changed_by", uint64(event.ChangedBy)),
		slog.String("request_id", event.RequestID),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
