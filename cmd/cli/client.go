package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// apiError is a non-2xx answer from the API.
type apiError struct {
	Status    int
	Code      string
	Message   string
	Retryable bool
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Code, e.Status)
}

// apiClient calls the splitledger HTTP API, retrying only answers the
// server marks retryable and transport failures.
type apiClient struct {
	baseURL    string
	userID     string
	token      string
	http       *http.Client
	maxRetries uint64
	interval   time.Duration
}

func newAPIClient(baseURL, userID, token string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		token:      token,
		http:       &http.Client{Timeout: timeout},
		maxRetries: 3,
		interval:   200 * time.Millisecond,
	}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.interval

	return backoff.Retry(func() error {
		err := c.once(ctx, method, path, payload, out)
		var apiErr *apiError
		if errors.As(err, &apiErr) && !apiErr.Retryable {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}

func (c *apiClient) once(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		var eb struct {
			Error     string `json:"error"`
			Message   string `json:"message"`
			Retryable bool   `json:"retryable"`
		}
		if json.Unmarshal(raw, &eb) == nil {
			if eb.Error != "" {
				apiErr.Code = eb.Error
			}
			apiErr.Message = eb.Message
			apiErr.Retryable = eb.Retryable
		}
		if resp.StatusCode == http.StatusBadGateway || resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusGatewayTimeout {
			apiErr.Retryable = true
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	return nil
}
