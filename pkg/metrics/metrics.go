package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess           = "success"
	OutcomeDenied            = "denied"
	OutcomeNotFound          = "not_found"
	OutcomeInvalidTransition = "invalid_transition"
	OutcomeInvalidArgument   = "invalid_argument"
	OutcomeError             = "error"
)

const namespace = "finops_dashboard"

var (
	workflowActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_actions_total",
			Help:      "Workflow and lifecycle actions, partitioned by action and outcome.",
		},
		[]string{"action", "outcome"},
	)

	integrationConnectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integration_connects_total",
			Help:      "Integration connect attempts by data source and result.",
		},
		[]string{"data_source", "success"},
	)

	pollFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_fetches_total",
			Help:      "Poller fetches by feed and outcome.",
		},
		[]string{"feed", "outcome"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Register attaches the dashboard collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		workflowActionsTotal,
		integrationConnectsTotal,
		pollFetchesTotal,
		httpRequestDurationSeconds,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// Outcome maps an operation error onto an outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrPermissionDenied):
		return OutcomeDenied
	case errors.Is(err, domain.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return OutcomeInvalidTransition
	case errors.Is(err, domain.ErrInvalidArgument):
		return OutcomeInvalidArgument
	default:
		return OutcomeError
	}
}

func ObserveAction(action string, err error) {
	workflowActionsTotal.WithLabelValues(action, Outcome(err)).Inc()
}

func ObserveConnect(source domain.DataSource, success bool) {
	integrationConnectsTotal.WithLabelValues(string(source), strconv.FormatBool(success)).Inc()
}

func ObservePoll(feed string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	pollFetchesTotal.WithLabelValues(feed, outcome).Inc()
}

func ObserveRequest(method, route string, status int, duration time.Duration) {
	if duration < 0 {
		duration = 0
	}
	httpRequestDurationSeconds.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
