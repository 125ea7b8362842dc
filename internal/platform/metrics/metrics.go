package metrics

import (
	"net/http"
	"strconv"
	"time"

	"rewardsplit/contexts/finance-core/payout-structure-service/domain/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardsplit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rewardsplit_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rewardsplit_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	RowReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardsplit_row_reconciliations_total",
			Help: "Row edits reconciled by the engine, by edited field and outcome",
		},
		[]string{"edited_field", "outcome"},
	)

	TotalRewardRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rewardsplit_total_reward_recomputes_total",
			Help: "Total reward changes that recomputed every row",
		},
	)

	TotalRewardSkippedRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rewardsplit_total_reward_skipped_rows_total",
			Help: "Rows left unchanged by a total reward change because a field was not numeric",
		},
	)

	OutboxRelayCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rewardsplit_outbox_relay_cycles_total",
			Help: "Outbox relay cycles by status",
		},
		[]string{"status"},
	)

	OutboxPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rewardsplit_outbox_published_total",
			Help: "Outbox messages published to the event bus",
		},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rewardsplit_rate_limited_requests_total",
			Help: "Mutating requests rejected by the per-operator rate limiter",
		},
	)
)

const (
	outcomeReconciled = "reconciled"
	outcomeUndefined  = "undefined"
)

// Observer records engine reconciliations.
type Observer struct{}

func (Observer) RowReconciled(rec entities.Reconciliation) {
	outcome := outcomeReconciled
	if rec.Undefined() {
		outcome = outcomeUndefined
	}
	RowReconciliationsTotal.WithLabelValues(string(rec.Edited), outcome).Inc()
}

func (Observer) TotalReconciled(rec entities.TotalReconciliation) {
	TotalRewardRecomputesTotal.Inc()
	TotalRewardSkippedRowsTotal.Add(float64(len(rec.Skipped)))
}

// RecordOutboxCycle records one relay cycle.
func RecordOutboxCycle(published int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	OutboxRelayCyclesTotal.WithLabelValues(status).Inc()
	OutboxPublishedTotal.Add(float64(published))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration. The path label is the
// matched ServeMux pattern so that structure IDs do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(rec.status)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
