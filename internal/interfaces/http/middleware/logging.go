// Package middleware holds the HTTP middleware chain of the API server.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
)

// LoggingConfig configures RequestLogging.
type LoggingConfig struct {
	SkipPaths []string
	// SlowThreshold promotes slow successful requests to Warn. Zero disables.
	SlowThreshold time.Duration
}

// DefaultLoggingConfig skips the health endpoints and the scrape endpoint.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:     []string{"/healthz", "/healthz/detail", "/readyz", "/metrics"},
		SlowThreshold: 3 * time.Second,
	}
}

// wrap returns a writer that remembers status and size. Flush and Hijack
// stay reachable through it.
func wrap(w http.ResponseWriter, r *http.Request) chimw.WrapResponseWriter {
	if ww, ok := w.(chimw.WrapResponseWriter); ok {
		return ww
	}
	return chimw.NewWrapResponseWriter(w, r.ProtoMajor)
}

// statusOf reports 200 for handlers that wrote nothing.
func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

// routeOf returns the matched chi pattern, or fallback outside a router or
// for unmatched requests.
func routeOf(r *http.Request, fallback string) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return fallback
}

// RequestLogging writes one line per request: 5xx at Error, 4xx and slow
// requests at Warn, the rest at Info. Install it after RequestID.
func RequestLogging(logger logging.Logger, config LoggingConfig) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			ww := wrap(w, r)
			start := time.Now()
			next.ServeHTTP(ww, r)
			elapsed := time.Since(start)
			status := statusOf(ww)

			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.RequestURI()),
				logging.String("route", routeOf(r, r.URL.Path)),
				logging.Int("status", status),
				logging.Duration("duration", elapsed),
				logging.Int64("bytes", int64(ww.BytesWritten())),
				logging.String("remote_addr", r.RemoteAddr),
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, logging.String("user_agent", ua))
			}

			log := logger.WithContext(r.Context())
			switch {
			case status >= http.StatusInternalServerError:
				log.Error("HTTP request completed with server error", fields...)
			case status >= http.StatusBadRequest:
				log.Warn("HTTP request completed with client error", fields...)
			case config.SlowThreshold > 0 && elapsed >= config.SlowThreshold:
				log.Warn("HTTP request completed (slow)", fields...)
			default:
				log.Info("HTTP request completed", fields...)
			}
		})
	}
}

//Personal.AI order the ending
