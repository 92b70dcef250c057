package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/auth"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

// UserIDHeader carries the caller identity when bearer auth is disabled.
const UserIDHeader = "X-User-ID"

// Identity resolves the caller and stores it in the request context.
type Identity struct {
	jwt     *auth.JWTManager
	metrics *metrics.Metrics
}

// NewIdentity creates an Identity middleware. With a JWT manager every API
// request must carry a valid bearer token whose subject is the caller;
// without one the X-User-ID header is trusted. m may be nil.
func NewIdentity(jwtManager *auth.JWTManager, m *metrics.Metrics) *Identity {
	return &Identity{jwt: jwtManager, metrics: m}
}

// Wrap wraps an http.Handler with caller resolution.
func (i *Identity) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, reason := i.resolve(r)
		if reason != "" {
			if i.metrics != nil {
				i.metrics.AuthFailures.WithLabelValues(reason).Inc()
			}
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", reason)
			return
		}
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := domain.ContextWithActor(r.Context(), userID)
		zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("user_id", userID)
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolve returns the caller, or a failure reason when a token is required
// and missing or invalid.
func (i *Identity) resolve(r *http.Request) (string, string) {
	if i.jwt == nil {
		return strings.TrimSpace(r.Header.Get(UserIDHeader)), ""
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "missing authorization header"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "invalid authorization header format"
	}

	claims, err := i.jwt.Verify(parts[1])
	if err != nil {
		return "", "invalid or expired token"
	}
	return claims.UserID(), ""
}
