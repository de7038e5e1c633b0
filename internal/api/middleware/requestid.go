package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader is the response header carrying the per-request id.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID, echoes it in the response header
// and attaches it to the active span. An incoming X-Request-ID is reused so
// callers can correlate retries.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		span := trace.SpanFromContext(r.Context())
		span.SetAttributes(attribute.String("request.id", id))

		next.ServeHTTP(w, r)
	})
}
