package audit

import (
	"context"
	"log/slog"
	"time"

	id "certform/pkg/domain"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. Sink
// deliveries are best-effort; a failed sink never fails the emit.
//
// By default delivery is synchronous. With a buffer configured, Emit
// enqueues and a Worker drains the queue off the request path.
type Publisher struct {
	store  Store
	sinks  []Sink
	inbox  chan Event
	logger *slog.Logger
}

type PublisherOption func(p *Publisher)

func WithSink(sink Sink) PublisherOption {
	return func(p *Publisher) {
		p.sinks = append(p.sinks, sink)
	}
}

// WithBuffer switches Emit to enqueue events for a background Worker. size
// bounds the queue; when it is full Emit delivers inline instead of
// dropping the event.
func WithBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if p.inbox != nil {
		select {
		case p.inbox <- base:
			return nil
		default:
			// Queue full: deliver inline rather than drop.
		}
	}
	return p.deliver(ctx, base)
}

func (p *Publisher) deliver(ctx context.Context, event Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"error", err)
		}
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, appID id.ApplicationID) ([]Event, error) {
	return p.store.ListByApplication(ctx, appID)
}
