package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		label      string
		statusCode int
	}{
		{
			name:       "uses route pattern",
			method:     http.MethodGet,
			path:       "/transactions/ABC123",
			label:      "/transactions/{id}",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "unrouted path is normalized",
			method:     http.MethodPost,
			path:       "/users/bob/unknown",
			label:      "/users/:id/unknown",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.NewWithRegistry(prometheus.NewRegistry())

			r := chi.NewRouter()
			r.Use(NewMetrics(m).Wrap)
			r.Get("/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.statusCode)
			})

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.label, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "transaction path without suffix",
			input:    "/api/v1/transactions/ABC123",
			expected: "/api/v1/transactions/:id",
		},
		{
			name:     "participant paid path",
			input:    "/api/v1/transactions/ABC123/participants/bob/paid",
			expected: "/api/v1/transactions/:id/participants/:id/paid",
		},
		{
			name:     "user balances",
			input:    "/api/v1/users/bob/balances",
			expected: "/api/v1/users/:id/balances",
		},
		{
			name:     "collection root",
			input:    "/api/v1/groups/",
			expected: "/api/v1/groups/",
		},
		{
			name:     "non-matching path",
			input:    "/health",
			expected: "/health",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePath(tc.input); got != tc.expected {
				t.Fatalf("normalizePath(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
