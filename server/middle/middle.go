// Package middle contains middleware for use with the ChatMacro server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// RequestKey is a key in the context of a request populated by middleware in
// this package.
type RequestKey int64

const (
	RequestID RequestKey = iota
)

// RequestIDHeader carries the ID of a request in both directions.
const RequestIDHeader = "X-Request-ID"

// GetRequestID returns the request ID stored in ctx by AssignRequestID, or the
// empty string if there is none.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestID).(string)
	return id
}

// AssignRequestID gives every request an ID. A valid UUID sent by the client
// in RequestIDHeader is kept; otherwise a new one is generated. The ID is put
// in the request context and echoed in the response header.
func AssignRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id, err := uuid.Parse(req.Header.Get(RequestIDHeader))
			if err != nil {
				id = uuid.New()
			}

			idStr := id.String()
			w.Header().Set(RequestIDHeader, idStr)

			ctx := context.WithValue(req.Context(), RequestID, idStr)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// Timeout cancels the context of every request after d. A d of zero or less
// disables it.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx, cancel := context.WithTimeout(req.Context(), d)
			defer cancel()
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}
