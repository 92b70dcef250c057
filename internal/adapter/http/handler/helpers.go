package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
)

const (
	defaultPageLimit = 50
	maxRequestBody   = 1 << 20
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps an error kind to an HTTP status code.
func mapDomainError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindPermission:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders err by kind. Caller mistakes are reported
// verbatim; transient failures get a generic message marked retryable.
func writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	kind := domain.KindOf(err)
	status := mapDomainError(err)
	resp := dto.ErrorResponse{Error: message}

	switch kind {
	case domain.KindValidation, domain.KindPermission, domain.KindNotFound:
		resp.Message = err.Error()
	case domain.KindConflict:
		resp.Message = "the transaction was changed concurrently; reload and retry"
		resp.Retryable = true
	case domain.KindNetwork, domain.KindTimeout:
		resp.Message = "the transaction store is unavailable; retry later"
		resp.Retryable = true
	default:
		resp.Message = "internal error"
	}

	level := zerolog.DebugLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	zerolog.Ctx(r.Context()).WithLevel(level).
		Err(err).
		Str("kind", string(kind)).
		Int("status", status).
		Msg(message)

	writeJSON(w, status, resp)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", domain.ErrValidation, err)
	}
	return nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseVersionQuery parses expected_version. A missing value is zero.
func parseVersionQuery(r *http.Request) (int64, error) {
	val := r.URL.Query().Get("expected_version")
	if val == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(val, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: invalid expected_version %q", domain.ErrValidation, val)
	}
	return v, nil
}
