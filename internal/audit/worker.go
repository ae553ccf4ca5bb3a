package audit

import (
	"context"
	"log/slog"
)

// Sink forwards persisted events to an external system (Kafka). Optional.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Worker drains the publisher's inbox into the store and, when configured,
// the external sink. Store failures are logged and the event is kept moving:
// the audit trail must never wedge the mutation pipeline behind it.
type Worker struct {
	store  Store
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"event_id", event.ID.String(),
					"action", string(event.Action),
					"error", err,
				)
			}
			if w.sink == nil {
				continue
			}
			if err := w.sink.Publish(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to publish audit event",
					"event_id", event.ID.String(),
					"action", string(event.Action),
					"error", err,
				)
			}
		}
	}
}
