package testutil

import (
	"context"
	"testing"
	"time"

	"certform/pkg/requestcontext"
)

// Context returns a background context carrying a fixed reference time and a
// stable request ID, so time-sensitive assertions stay deterministic.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx := requestcontext.WithTime(context.Background(), FixedNow())
	return requestcontext.WithRequestID(ctx, "test-request")
}

// FixedNow is the reference instant used across unit tests.
func FixedNow() time.Time {
	return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
}

// Polling bounds for Eventually-style assertions on background goroutines.
const (
	WaitTimeout = 2 * time.Second
	WaitTick    = 10 * time.Millisecond
)
