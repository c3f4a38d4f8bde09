package middleware

import (
	"net/http"
	"time"

	"hotfire/backend/services/runs-service/internal/metrics"
)

// Observe records request count and latency under a fixed route label, so
// run names never become label values.
func Observe(m *metrics.Metrics, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)
			m.ObserveRequest(route, rec.status, time.Since(start))
		})
	}
}
