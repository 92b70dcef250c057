package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/splitledger/internal/adapter/http/dto"
	"github.com/iho/splitledger/internal/domain"
)

// serve routes req through a chi router so URL parameters resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func asActor(req *http.Request, userID string) *http.Request {
	return req.WithContext(domain.ContextWithActor(req.Context(), userID))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/transactions?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestParseVersionQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/transactions/tx?expected_version=7", nil)
	if v, err := parseVersionQuery(req); err != nil || v != 7 {
		t.Fatalf("expected version 7, got %d (%v)", v, err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/transactions/tx", nil)
	if v, err := parseVersionQuery(req); err != nil || v != 0 {
		t.Fatalf("expected zero version, got %d (%v)", v, err)
	}

	req = httptest.NewRequest(http.MethodDelete, "/transactions/tx?expected_version=x", nil)
	if _, err := parseVersionQuery(req); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"transaction not found", domain.ErrTransactionNotFound, http.StatusNotFound},
		{"group not found", domain.ErrGroupNotFound, http.StatusNotFound},
		{"share sum", domain.ErrPercentageSum, http.StatusBadRequest},
		{"not payer", domain.ErrNotPayer, http.StatusForbidden},
		{"version mismatch", domain.ErrVersionMismatch, http.StatusConflict},
		{"timeout", fmt.Errorf("%w: slow", domain.ErrTimeout), http.StatusGatewayTimeout},
		{"network", fmt.Errorf("%w: down", domain.ErrNetwork), http.StatusServiceUnavailable},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainError_HidesTransientDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	writeDomainError(rec, req, "failed", fmt.Errorf("%w: dial tcp 10.0.0.4:5432: refused", domain.ErrNetwork))

	resp := decodeError(t, rec)
	if !resp.Retryable {
		t.Fatalf("network errors must be marked retryable")
	}
	if strings.Contains(resp.Message, "10.0.0.4") {
		t.Fatalf("transport detail leaked: %q", resp.Message)
	}
}

func TestWriteDomainError_ReportsValidationVerbatim(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	writeDomainError(rec, req, "failed", domain.ErrNoParticipants)

	resp := decodeError(t, rec)
	if resp.Retryable || resp.Message != domain.ErrNoParticipants.Error() {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	resp := decodeError(t, rr)
	if resp.Error != "bad request" || resp.Message != "detail" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
