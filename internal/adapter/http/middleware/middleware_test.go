package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

func actorEcho(t *testing.T, want string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ := domain.ActorFromContext(r.Context())
		if got != want {
			t.Fatalf("actor = %q, want %q", got, want)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestIdentity_HeaderMode(t *testing.T) {
	mw := NewIdentity(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/bob/balances", nil)
	req.Header.Set(UserIDHeader, "bob")
	rr := httptest.NewRecorder()
	mw.Wrap(actorEcho(t, "bob")).ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	// Anonymous requests pass through; use cases reject them.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/users/bob/balances", nil)
	rr = httptest.NewRecorder()
	mw.Wrap(actorEcho(t, "")).ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
}

func TestIdentity_BearerMode(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	mw := NewIdentity(jwtManager, m)

	token, err := jwtManager.Generate(&domain.User{ID: "alice", Name: "Alice"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(UserIDHeader, "mallory")
	rr := httptest.NewRecorder()
	mw.Wrap(actorEcho(t, "alice")).ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}

	for _, header := range []string{"", "Token abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler must not run for %q", header)
		})).ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %q, got %d", header, rr.Code)
		}
	}

	if got := testutil.ToFloat64(m.AuthFailures.WithLabelValues("invalid or expired token")); got != 1 {
		t.Fatalf("expected one invalid token failure, got %v", got)
	}
}

func TestRateLimiter_PerCaller(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 1).WithMetrics(m)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	send := func(actor string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		if actor != "" {
			req = req.WithContext(domain.ContextWithActor(req.Context(), actor))
		}
		rr := httptest.NewRecorder()
		rl.Limit(next).ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("alice"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("alice"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", code)
	}
	if code := send("bob"); code != http.StatusOK {
		t.Fatalf("another caller on the same IP must not be throttled, got %d", code)
	}
	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("1.2.3.4")); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}

	rl.CleanupLimiters()
	if code := send("alice"); code != http.StatusOK {
		t.Fatalf("expected limiter reset after cleanup, got %d", code)
	}
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	if got := getIP(req); got != "10.0.0.1" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4433"
	if got := getIP(req); got != "192.168.1.5" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestRecovery_ReturnsJSON500(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "internal server error") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestLoggingMiddleware_AttachesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusCreated)
	})).ServeHTTP(rr, req)

	out := buf.String()
	if !strings.Contains(out, "inside handler") {
		t.Fatalf("handler log missing: %s", out)
	}
	if !strings.Contains(out, `"status":201`) || !strings.Contains(out, "request completed") {
		t.Fatalf("request log missing: %s", out)
	}
}

func TestLoggingMiddleware_LevelFollowsStatus(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, `"level":"info"`},
		{http.StatusConflict, `"level":"warn"`},
		{http.StatusServiceUnavailable, `"level":"error"`},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		mw := NewLoggingMiddleware(zerolog.New(&buf))
		mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/bob/balances", nil))

		out := buf.String()
		if !strings.Contains(out, tc.level) {
			t.Fatalf("status %d: expected %s in %s", tc.status, tc.level, out)
		}
		if !strings.Contains(out, `"route":"/api/v1/users/:id/balances"`) {
			t.Fatalf("route label missing: %s", out)
		}
	}
}

func TestLoggingMiddleware_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if !strings.Contains(buf.String(), `"status":200`) || !strings.Contains(buf.String(), `"bytes":2`) {
		t.Fatalf("unexpected log: %s", buf.String())
	}
}
