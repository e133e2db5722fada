package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const RequestIDKey ContextKey = "request_id"

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation id. An id supplied by an
// upstream proxy is kept; otherwise a fresh one is generated. The id is
// echoed on the response so clients can quote it in support requests.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the correlation id stored on the context, if any.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
