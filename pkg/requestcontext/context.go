// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
// The pipeline leans on Time(ctx) for the date-boundary reference instant: the
// orchestrator freezes it to the application's submission time when the
// application has already been submitted, so re-validation never drifts as
// real time passes.
//
// Usage in services (read values):
//
//	role := requestcontext.ActorRole(ctx)
//	now := requestcontext.Time(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithActorRole(ctx, role)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	actorRoleKey   struct{}
	actorIDKey     struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// WithActorRole stores the resolved actor role (applicant/certifier/admin).
func WithActorRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, actorRoleKey{}, role)
}

// ActorRole returns the resolved actor role, or "" when unauthenticated.
func ActorRole(ctx context.Context) string {
	role, _ := ctx.Value(actorRoleKey{}).(string)
	return role
}

// WithActorID stores the authenticated actor identifier.
func WithActorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actorIDKey{}, id)
}

// ActorID returns the authenticated actor identifier, or "".
func ActorID(ctx context.Context) string {
	id, _ := ctx.Value(actorIDKey{}).(string)
	return id
}

// WithRequestID stores the request correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request correlation ID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithTime stores the reference instant for the request.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Time returns the reference instant for the request. Falls back to the wall
// clock when no middleware or test has set one.
func Time(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
