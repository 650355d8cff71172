package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/estate/pkg/apperr"
	"gorm.io/gorm"
)

const (
	WriteOutcomeCommitted = "committed"
	WriteOutcomeRejected  = "rejected"
	WriteOutcomeFailed    = "failed"
)

const (
	WriteReasonNone                 = "none"
	WriteReasonDeadlineExceeded     = "deadline_exceeded"
	WriteReasonLockTimeout          = "db_lock_timeout"
	WriteReasonSerializationFailure = "serialization_failure"
	WriteReasonUniqueViolation      = "unique_violation"
	WriteReasonBusinessRule         = "business_rule"
	WriteReasonUnknown              = "unknown"
)

const (
	WritePayBill       = "pay_bill"
	WriteApprovePayout = "approve_payout"
	WriteCreateBill    = "create_bill"
	WriteExpense       = "expense"
)

// LedgerMetrics exposes Prometheus signals for the transactional write paths.
type LedgerMetrics struct {
	writes   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewLedgerMetrics(cfg Config) (*LedgerMetrics, error) {
	return newLedgerMetrics(prometheus.DefaultRegisterer, cfg)
}

func newLedgerMetrics(registerer prometheus.Registerer, cfg Config) (*LedgerMetrics, error) {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "estate"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "estate_ledger_writes_total",
		Help:        "Transactional ledger writes by operation, outcome and reason.",
		ConstLabels: constLabels,
	}, []string{"operation", "outcome", "reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "estate_ledger_write_duration_seconds",
		Help:        "Duration of transactional ledger writes.",
		ConstLabels: constLabels,
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"operation"})

	var err error
	if writes, err = register(registerer, writes); err != nil {
		return nil, err
	}
	if duration, err = register(registerer, duration); err != nil {
		return nil, err
	}
	return &LedgerMetrics{writes: writes, duration: duration}, nil
}

func register[T prometheus.Collector](registerer prometheus.Registerer, c T) (T, error) {
	if registerer == nil {
		return c, nil
	}
	if err := registerer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveWrite records one write attempt. A nil receiver is a no-op.
func (m *LedgerMetrics) ObserveWrite(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome, reason := ClassifyWrite(err)
	m.writes.WithLabelValues(operation, outcome, reason).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ClassifyWrite maps a write error to an outcome and a bounded reason label.
func ClassifyWrite(err error) (string, string) {
	if err == nil {
		return WriteOutcomeCommitted, WriteReasonNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return WriteOutcomeFailed, WriteReasonDeadlineExceeded
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return WriteOutcomeRejected, WriteReasonUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return WriteOutcomeRejected, WriteReasonUniqueViolation
		case pgerrcode.LockNotAvailable:
			return WriteOutcomeFailed, WriteReasonLockTimeout
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return WriteOutcomeFailed, WriteReasonSerializationFailure
		}
	}
	switch apperr.KindOf(err) {
	case apperr.KindStorage, apperr.KindInternal:
		return WriteOutcomeFailed, WriteReasonUnknown
	default:
		return WriteOutcomeRejected, WriteReasonBusinessRule
	}
}
