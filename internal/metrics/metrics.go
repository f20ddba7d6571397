package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Plant-GO/biodex/internal/domain"
)

const namespace = "biodex"

// Invocation outcomes
const (
	OutcomeCommitted = "committed"
	OutcomeRejected  = "rejected"
	OutcomeConflict  = "conflict"
	OutcomeFailed    = "failed"
)

// Metrics holds the issuance collectors. A nil *Metrics records nothing.
type Metrics struct {
	invocations *prometheus.CounterVec
	cards       *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	gatherer    prometheus.Gatherer
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invocations_total",
			Help:      "Invocations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		cards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_issued_total",
			Help:      "Committed card issuances by path and awarded tier.",
		}, []string{"path", "rarity"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Invocation latency including the host transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{m.invocations, m.cards, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Outcome classifies an invocation error for the outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrInvocationConflict):
		return OutcomeConflict
	case domain.IsCallerError(err):
		return OutcomeRejected
	default:
		return OutcomeFailed
	}
}

// ObserveInvocation records one finished invocation
func (m *Metrics) ObserveInvocation(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	m.invocations.WithLabelValues(operation, Outcome(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CardIssued records a committed issuance
func (m *Metrics) CardIssued(path domain.PathKind, tier domain.RarityTier) {
	if m == nil {
		return
	}
	m.cards.WithLabelValues(string(path), tier.String()).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
