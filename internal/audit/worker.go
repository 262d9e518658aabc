package audit

import (
	"context"
	"errors"
	"log/slog"
)

// Worker drains a buffered Publisher's queue in the background, keeping
// audit capture off the request path. Shutdown flushes whatever is still
// queued, so an event accepted by Emit is never lost to cancellation.
type Worker struct {
	publisher *Publisher
	logger    *slog.Logger
}

// Worker returns the drain loop for a buffered publisher. A publisher
// without a buffer delivers inline and has nothing to drain.
func (p *Publisher) Worker() (*Worker, error) {
	if p.inbox == nil {
		return nil, errors.New("audit: publisher has no buffer to drain")
	}
	return &Worker{publisher: p, logger: p.logger}, nil
}

// Run delivers queued events until ctx is cancelled, then flushes the
// remaining queue. Delivery failures are logged, not returned; one bad
// event must not stop the trail.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-w.publisher.inbox:
			w.deliver(ctx, event)
		}
	}
}

func (w *Worker) flush(ctx context.Context) {
	for {
		select {
		case event := <-w.publisher.inbox:
			w.deliver(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) deliver(ctx context.Context, event Event) {
	if err := w.publisher.deliver(ctx, event); err != nil && w.logger != nil {
		w.logger.ErrorContext(ctx, "audit delivery failed",
			"action", event.Action,
			"error", err)
	}
}
