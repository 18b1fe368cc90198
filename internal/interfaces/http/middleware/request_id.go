package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Client-supplied ids are echoed only when they are short and printable.
var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID stores the caller's X-Request-ID, or a fresh UUID, in the
// request context where loggers and event envelopes pick it up.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

//Personal.AI order the ending
