package typecheck

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the per-call metrics. A call lands in exactly one:
// the phase where validation stopped, or ok when every check passed.
const (
	outcomeOk               = "ok"
	outcomeBindError        = "bind_error"
	outcomeArgumentMismatch = "argument_mismatch"
	outcomeCallError        = "call_error"
	outcomeReturnMismatch   = "return_mismatch"
)

var (
	// checkedCallsTotal counts every invocation of a wrapped callable,
	// labeled by how the call ended. This allows tracking mismatch rates
	// per phase:
	//   - rate(typecheck_calls_total[5m]) - validated calls per second
	//   - typecheck_calls_total{outcome="argument_mismatch"} - rejected inputs
	//   - typecheck_calls_total{outcome="return_mismatch"} - misbehaving callables
	//
	// The nolint:gochecknoglobals directive is used because Prometheus metrics
	// are intentionally global by design - they need to be registered once and
	// accessed throughout the application lifecycle.
	checkedCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "typecheck_calls_total",
		Help: "The total number of calls through a validating wrapper",
	}, []string{"outcome"})

	// validationTime tracks the validation overhead per call in
	// milliseconds: binding plus argument checking plus return checking,
	// with the wrapped callable's own runtime excluded. Checks are
	// in-memory structural walks, so the buckets skew small; anything in
	// the upper buckets means pathologically large containers.
	validationTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "typecheck_validation_time_millis",
		Help: "Time spent binding and checking per call, in milliseconds",
		Buckets: []float64{
			0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500,
		},
	}, []string{"outcome"})
)

// init pre-initializes the counter with zero values for every outcome, so
// the time series exist from process start. Without this, rate() over a
// label that has not occurred yet returns no data instead of zero, and
// dashboards cannot distinguish "no mismatches" from "no metric".
func init() {
	for _, outcome := range []string{
		outcomeOk, outcomeBindError, outcomeArgumentMismatch,
		outcomeCallError, outcomeReturnMismatch,
	} {
		checkedCallsTotal.WithLabelValues(outcome).Add(0)
	}
}

// observe records one finished call: its outcome and the time spent
// validating (not executing).
func observe(outcome string, spent time.Duration) {
	checkedCallsTotal.WithLabelValues(outcome).Inc()
	validationTime.WithLabelValues(outcome).Observe(float64(spent.Nanoseconds()) / 1e6)
}
