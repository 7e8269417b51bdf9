package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// SQLSTATE codes that abort a unit of work which is safe to run again.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// RetryPolicy bounds how often and how long an aborted unit of work is rerun.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy reruns a unit of work at most three times.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Retrier implements usecase.Retrier, rerunning units of work that Postgres
// aborted because of lock or serialization conflicts.
type Retrier struct {
	policy  RetryPolicy
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewRetrier creates a Retrier using DefaultRetryPolicy.
func NewRetrier() *Retrier {
	return &Retrier{
		policy: DefaultRetryPolicy,
		logger: log.Logger,
	}
}

// WithPolicy replaces the retry policy.
func (r *Retrier) WithPolicy(p RetryPolicy) *Retrier {
	r.policy = p
	return r
}

// WithLogger sets the logger used for retry warnings.
func (r *Retrier) WithLogger(logger zerolog.Logger) *Retrier {
	r.logger = logger
	return r
}

// WithMetrics counts every retry on m.
func (r *Retrier) WithMetrics(m *metrics.Metrics) *Retrier {
	r.metrics = m
	return r
}

func (r *Retrier) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = r.policy.MaxElapsedTime

	return backoff.WithContext(backoff.WithMaxRetries(b, r.policy.MaxRetries), ctx)
}

// Retry runs op and reruns it after a backoff while it fails with a
// deadlock or serialization failure. Other errors are returned at once.
func (r *Retrier) Retry(ctx context.Context, op func() error) error {
	attempt := 0

	notify := func(err error, wait time.Duration) {
		attempt++
		if r.metrics != nil {
			r.metrics.UnitOfWorkRetries.Inc()
		}
		r.logger.Warn().
			Err(err).
			Int("retry", attempt).
			Dur("backoff", wait).
			Msg("unit of work aborted by postgres, retrying")
	}

	return backoff.RetryNotify(func() error {
		err := op()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, r.backOff(ctx), notify)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrDeadlock || pgErr.Code == pgErrSerializationFailure
}
