// Package requestid assigns each request a correlation id.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"certform/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware stores the inbound X-Request-ID header in the context, minting a
// fresh id when the caller sent none, and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(headerName)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(headerName, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
