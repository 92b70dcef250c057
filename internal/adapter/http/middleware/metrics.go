package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// Metrics records request counts and durations labelled by route.
type Metrics struct {
	metrics *metrics.Metrics
}

// NewMetrics creates a metrics middleware.
func NewMetrics(m *metrics.Metrics) *Metrics {
	return &Metrics{metrics: m}
}

// Wrap wraps an http.Handler with request metrics.
func (m *Metrics) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := routePattern(r)
		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(responseStatus(ww))).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern prefers the matched chi pattern and falls back to
// normalizePath for unrouted requests.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// collections whose next path segment is an identifier.
var idCollections = map[string]bool{
	"transactions": true,
	"participants": true,
	"users":        true,
	"groups":       true,
}

// normalizePath replaces identifiers with :id to bound label cardinality.
// /api/v1/transactions/01ABC/participants/bob/paid -> /api/v1/transactions/:id/participants/:id/paid
func normalizePath(path string) string {
	segments := strings.Split(path, "/")
	for i := 1; i < len(segments); i++ {
		if idCollections[segments[i-1]] && segments[i] != "" {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
