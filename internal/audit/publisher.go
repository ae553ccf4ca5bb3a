package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"kustodia/pkg/requestcontext"
)

// Publisher hands events to the background worker over a buffered channel.
// Emission never blocks the mutating request: when the buffer is full the
// event is dropped with a warning rather than stalling the caller.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: make(chan Event, buffer), logger: logger}
}

// Inbox exposes the channel for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"action", string(event.Action),
			"event_id", event.ID.String(),
		)
	}
}
