package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerOperations  *prometheus.CounterVec
	LedgerErrors      *prometheus.CounterVec
	LedgerDuration    *prometheus.HistogramVec
	LedgerAmount      *prometheus.HistogramVec
	UnitOfWorkRetries prometheus.Counter

	// Wallet metrics
	WalletsCreated prometheus.Counter
	CacheLookups   *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		LedgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_ledger_operations_total",
				Help: "Total committed ledger operations by kind",
			},
			[]string{"operation"},
		),
		LedgerErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_ledger_errors_total",
				Help: "Total rejected or failed ledger operations",
			},
			[]string{"operation", "error_type"},
		),
		LedgerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_ledger_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		LedgerAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_ledger_amount",
				Help:    "Amounts moved by ledger operations",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"operation"},
		),
		UnitOfWorkRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_unit_of_work_retries_total",
			Help: "Units of work retried after a transient storage conflict",
		}),

		WalletsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_wallets_created_total",
			Help: "Total number of wallets created",
		}),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_wallet_cache_lookups_total",
				Help: "Wallet cache lookups by result",
			},
			[]string{"result"},
		),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_outbox_published_total",
			Help: "Total outbox events relayed",
		}),
		OutboxErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "gowallet_outbox_errors_total",
			Help: "Total outbox relay failures",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gowallet_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gowallet_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// ObserveLedger records a committed ledger operation.
func (m *Metrics) ObserveLedger(operation string, amount float64, seconds float64) {
	if m == nil {
		return
	}
	m.LedgerOperations.WithLabelValues(operation).Inc()
	m.LedgerAmount.WithLabelValues(operation).Observe(amount)
	m.LedgerDuration.WithLabelValues(operation).Observe(seconds)
}

// LedgerFailed records a rejected or failed ledger operation.
func (m *Metrics) LedgerFailed(operation, errorType string) {
	if m == nil {
		return
	}
	m.LedgerErrors.WithLabelValues(operation, errorType).Inc()
}
