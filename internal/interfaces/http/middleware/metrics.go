package middleware

import (
	"net/http"
	"time"
)

// unmatchedRoute labels requests no route matched.
const unmatchedRoute = "unmatched"

// HTTPMetrics receives one observation per served request.
type HTTPMetrics interface {
	RecordHTTPRequest(method, route string, statusCode int, d time.Duration)
	TrackInFlight(method string) func()
}

// Metrics labels observations with the chi route pattern so /patents/{id} is
// one series whatever the id.
func Metrics(m HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer m.TrackInFlight(r.Method)()

			ww := wrap(w, r)
			start := time.Now()
			next.ServeHTTP(ww, r)
			m.RecordHTTPRequest(r.Method, routeOf(r, unmatchedRoute), statusOf(ww), time.Since(start))
		})
	}
}

//Personal.AI order the ending
