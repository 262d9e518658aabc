package audit

import (
	"context"

	id "certform/pkg/domain"
)

// Store persists audit events, append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplication(ctx context.Context, appID id.ApplicationID) ([]Event, error)
}

// Sink receives a copy of every emitted event, best-effort. Used for fan-out
// to external systems (message brokers) alongside the durable store.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
