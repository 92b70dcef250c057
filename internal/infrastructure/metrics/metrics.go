package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsUpdated prometheus.Counter
	TransactionsDeleted prometheus.Counter
	TransactionAmount   prometheus.Histogram
	SplitsComputed      *prometheus.CounterVec

	// Settlement metrics
	Settlements        *prometheus.CounterVec
	SettlementDuration prometheus.Histogram
	ParticipantsPaid   prometheus.Counter

	// Balance metrics
	BalanceCache      *prometheus.CounterVec
	IntegrityWarnings prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Store metrics
	StoreRequests *prometheus.CounterVec
	StoreDuration *prometheus.HistogramVec
	StoreRetries  *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit and event metrics
	AuditLogsCreated *prometheus.CounterVec
	EventsPublished  *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		TransactionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_transactions_created_total",
			Help: "Total number of shared transactions created",
		}),
		TransactionsUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_transactions_updated_total",
			Help: "Total number of shared transactions edited",
		}),
		TransactionsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_transactions_deleted_total",
			Help: "Total number of shared transactions deleted",
		}),
		TransactionAmount: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),
		SplitsComputed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_splits_computed_total",
				Help: "Total splits computed by method and outcome",
			},
			[]string{"method", "outcome"},
		),

		// Settlement metrics
		Settlements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_settlements_total",
				Help: "Settlement operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		SettlementDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitledger_settlement_duration_seconds",
			Help:    "Duration of settlement operations",
			Buckets: prometheus.DefBuckets,
		}),
		ParticipantsPaid: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_participants_paid_total",
			Help: "Total participant shares transitioned to paid",
		}),

		// Balance metrics
		BalanceCache: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_balance_cache_total",
				Help: "Balance cache lookups by result",
			},
			[]string{"result"},
		),
		IntegrityWarnings: f.NewCounter(prometheus.CounterOpts{
			Name: "splitledger_integrity_warnings_total",
			Help: "Counterparty balances that disagreed with an external source",
		}),

		// API metrics
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Store metrics
		StoreRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_store_requests_total",
				Help: "Transaction store calls by backend, operation and result",
			},
			[]string{"backend", "operation", "result"},
		),
		StoreDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "splitledger_store_duration_seconds",
				Help:    "Transaction store call duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "operation"},
		),
		StoreRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_store_retries_total",
				Help: "Store transactions retried after deadlock or serialization failure",
			},
			[]string{"operation"},
		),
		BreakerState: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "splitledger_store_breaker_state",
				Help: "Remote store circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),

		// Redis metrics
		RedisOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_auth_failures_total",
				Help: "Total caller identity failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit and event metrics
		AuditLogsCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitledger_events_published_total",
				Help: "Outbox events published by event type",
			},
			[]string{"event_type"},
		),
	}
}
