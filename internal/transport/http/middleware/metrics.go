package middleware

import (
	"net/http"
	"time"

	"github.com/go-auth-api/internal/metrics"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Instrument records the status and latency of every request, labelled by the
// matched route pattern rather than the raw path.
func Instrument(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}
