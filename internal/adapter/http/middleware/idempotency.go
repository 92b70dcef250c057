package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	// pendingResponse is the value held while the first request runs.
	pendingResponse = "processing"
)

// cachedResponse is what a finished request leaves behind for replays.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays finished POST and PUT requests that carry
// the same Idempotency-Key. Keys are scoped to the caller, method and path.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A
// non-positive ttl selects usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only apply to mutating requests
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		key = scopedKey(r, key)

		exists, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("idempotency check failed")
			writeJSONError(w, http.StatusInternalServerError, "idempotency check failed", "")
			return
		}

		if exists {
			if cached == nil || string(cached) == pendingResponse {
				writeJSONBody(w, http.StatusConflict, errorBody{
					Error:     "request in progress",
					Message:   "a request with this idempotency key is still running",
					Retryable: true,
				})
				return
			}

			var replay cachedResponse
			if err := json.Unmarshal(cached, &replay); err != nil || replay.Status == 0 {
				// A bare body replays as 200.
				replay = cachedResponse{Status: http.StatusOK, Body: cached}
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.WriteHeader(replay.Status)
			_, _ = w.Write(replay.Body)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// The request is finished either way; a cancelled client must not
		// leave the key claimed.
		ctx := context.WithoutCancel(r.Context())
		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			payload, _ := json.Marshal(cachedResponse{Status: recorder.statusCode, Body: recorder.body.Bytes()})
			if err := m.store.Update(ctx, key, payload, m.ttl); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to store idempotent response")
			}
			return
		}
		if err := m.store.Release(ctx, key); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to release idempotency key")
		}
	})
}

func scopedKey(r *http.Request, key string) string {
	actor, _ := domain.ActorFromContext(r.Context())
	return actor + ":" + r.Method + ":" + r.URL.Path + ":" + key
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
