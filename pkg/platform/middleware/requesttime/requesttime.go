// Package requesttime provides middleware for request-scoped time.
// All operations within a single HTTP request observe the same "now", which
// keeps date-boundary validation and audit timestamps consistent across the
// pipeline stages of one call.
package requesttime

import (
	"net/http"
	"time"

	"certform/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and stores
// it in the context for consistent time references throughout the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
