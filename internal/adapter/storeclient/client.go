// Package storeclient talks to a remote transaction store over HTTP JSON.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/iho/splitledger/internal/domain"
	"github.com/iho/splitledger/internal/infrastructure/metrics"
)

const (
	backendName = "remote"

	defaultTimeout             = 5 * time.Second
	defaultConsecutiveFailures = 5
	defaultOpenTimeout         = 30 * time.Second

	maxErrorBody = 4096
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
	Logger     *zerolog.Logger
	// Timeout bounds each request when the caller's context has no earlier deadline.
	Timeout time.Duration
	// ConsecutiveFailures opens the breaker; OpenTimeout is how long it stays open.
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// Client implements usecase.TransactionStore against a remote store. It
// never retries; an open circuit fails fast with domain.ErrNetwork.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  zerolog.Logger
	timeout time.Duration
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid store URL %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = defaultConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultOpenTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		baseURL: base,
		http:    httpClient,
		metrics: cfg.Metrics,
		logger:  logger.With().Str("component", "storeclient").Logger(),
		timeout: cfg.Timeout,
	}

	threshold := cfg.ConsecutiveFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "transaction-store",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Answers that carry a domain verdict prove the store is up.
		IsSuccessful: func(err error) bool {
			switch domain.KindOf(err) {
			case "", domain.KindNotFound, domain.KindConflict, domain.KindValidation, domain.KindPermission:
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("store circuit breaker state changed")
			if c.metrics != nil {
				c.metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			}
		},
	})

	return c, nil
}

// Create stores a new transaction.
func (c *Client) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	var out wireTransaction
	if err := c.do(ctx, "create", http.MethodPost, "/transactions", nil, fromDomain(t), &out); err != nil {
		return nil, err
	}
	return c.normalize(out)
}

// Get fetches one transaction.
func (c *Client) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	var out wireTransaction
	if err := c.do(ctx, "get", http.MethodGet, "/transactions/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return c.normalize(out)
}

// Update replaces a transaction if its version still matches.
func (c *Client) Update(ctx context.Context, t *domain.Transaction, expectedVersion int64) (*domain.Transaction, error) {
	var out wireTransaction
	body := updateRequest{Transaction: fromDomain(t), ExpectedVersion: expectedVersion}
	if err := c.do(ctx, "update", http.MethodPut, "/transactions/"+url.PathEscape(t.ID), nil, body, &out); err != nil {
		return nil, err
	}
	return c.normalize(out)
}

// Delete removes a transaction if its version still matches.
func (c *Client) Delete(ctx context.Context, id string, expectedVersion int64) error {
	query := url.Values{"expected_version": {strconv.FormatInt(expectedVersion, 10)}}
	return c.do(ctx, "delete", http.MethodDelete, "/transactions/"+url.PathEscape(id), query, nil, nil)
}

// ListForUser lists transactions involving userID.
func (c *Client) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Transaction, error) {
	return c.list(ctx, "list_user", "/users/"+url.PathEscape(userID)+"/transactions", limit, offset)
}

// ListForGroup lists transactions recorded in groupID.
func (c *Client) ListForGroup(ctx context.Context, groupID string, limit, offset int) ([]*domain.Transaction, error) {
	return c.list(ctx, "list_group", "/groups/"+url.PathEscape(groupID)+"/transactions", limit, offset)
}

// Settle asks the store to mark participants paid atomically.
func (c *Client) Settle(ctx context.Context, cmd domain.SettleCommand) (*domain.Transaction, error) {
	var out wireTransaction
	body := settleRequest{
		At:               cmd.At,
		PaymentMethodRef: cmd.PaymentMethodRef,
		ActorID:          cmd.ActorID,
		UserIDs:          cmd.UserIDs,
		ExpectedVersion:  cmd.ExpectedVersion,
	}
	path := "/transactions/" + url.PathEscape(cmd.TransactionID) + "/settle"
	if err := c.do(ctx, "settle", http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	return c.normalize(out)
}

func (c *Client) list(ctx context.Context, op, path string, limit, offset int) ([]*domain.Transaction, error) {
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}

	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodGet, path, query, nil, &raw); err != nil {
		return nil, err
	}

	// Stores answer with a bare array or with {"transactions": [...]}.
	var records []wireTransaction
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("malformed store response: %w", err)
		}
	} else {
		var envelope struct {
			Transactions []wireTransaction `json:"transactions"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("malformed store response: %w", err)
		}
		records = envelope.Transactions
	}

	txs := make([]*domain.Transaction, 0, len(records))
	for _, w := range records {
		t, err := c.normalize(w)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, nil
}

func (c *Client) normalize(w wireTransaction) (*domain.Transaction, error) {
	t, err := w.toDomain()
	if err != nil {
		return nil, fmt.Errorf("malformed store response: %w", err)
	}
	return t, nil
}

// do sends one request through the circuit breaker and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	start := time.Now()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, query, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%w: circuit open: %w", domain.ErrNetwork, err)
	}

	c.observe(op, start, err)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := *c.baseURL
	u.Path += path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor, ok := domain.ActorFromContext(ctx); ok {
		req.Header.Set("X-User-ID", actor)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if ctx.Err() != nil {
				return transportError(ctx, err)
			}
			return fmt.Errorf("malformed store response: %w", err)
		}
		return nil
	}

	return statusError(resp)
}

func transportError(ctx context.Context, err error) error {
	var netErr net.Error
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrNetwork, err)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		if eb.Message != "" {
			msg = eb.Message
		} else if eb.Error != "" {
			msg = eb.Error
		}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, msg)
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %s", domain.ErrVersionMismatch, msg)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrPermission, msg)
	case resp.StatusCode == http.StatusGatewayTimeout || resp.StatusCode == http.StatusRequestTimeout:
		return fmt.Errorf("%w: store answered %d", domain.ErrTimeout, resp.StatusCode)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: store answered %d: %s", domain.ErrNetwork, resp.StatusCode, msg)
	default:
		return fmt.Errorf("unexpected store status %d: %s", resp.StatusCode, msg)
	}
}

func (c *Client) observe(op string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(domain.KindOf(err))
	}
	c.metrics.StoreRequests.WithLabelValues(backendName, op, result).Inc()
	c.metrics.StoreDuration.WithLabelValues(backendName, op).Observe(time.Since(start).Seconds())
}
