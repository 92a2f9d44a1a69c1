// Package metrics exposes engine counters to Prometheus. One Recorder satisfies the
// Metrics interfaces of the assignment, escalation, notification and sweep use cases.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "triage"

type Recorder struct {
	assignmentsCreated  *prometheus.CounterVec
	assignmentsRejected *prometheus.CounterVec
	conflictRetries     prometheus.Counter
	escalationsCreated  *prometheus.CounterVec
	escalationsRejected *prometheus.CounterVec
	intents             *prometheus.CounterVec
	sweepRuns           *prometheus.CounterVec
	sweepOverdue        prometheus.Counter
	sweepDuration       prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

// NewRecorder registers every collector on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		assignmentsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_created_total",
			Help:      "Assignments opened, by path.",
		}, []string{"path"}),
		assignmentsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_rejected_total",
			Help:      "Assignment requests refused, by reason.",
		}, []string{"reason"}),
		conflictRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_conflict_retries_total",
			Help:      "Units of work re-run after an optimistic lock conflict.",
		}),
		escalationsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_created_total",
			Help:      "Escalations raised, by reason.",
		}, []string{"reason"}),
		escalationsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_rejected_total",
			Help:      "Escalation requests refused, by error type.",
		}, []string{"reason"}),
		intents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_intents_total",
			Help:      "Notification intents by kind and outcome.",
		}, []string{"kind", "outcome"}),
		sweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overdue_sweeps_total",
			Help:      "Overdue sweeps run.",
		}, []string{"dry_run"}),
		sweepOverdue: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_marked_overdue_total",
			Help:      "Assignments flipped to overdue by non-dry sweeps.",
		}),
		sweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overdue_sweep_duration_seconds",
			Help:      "Wall time of one sweep.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (r *Recorder) AssignmentCreated(manual bool) {
	path := "automatic"
	if manual {
		path = "manual"
	}
	r.assignmentsCreated.WithLabelValues(path).Inc()
}

func (r *Recorder) AssignmentRejected(reason string) {
	r.assignmentsRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) ConflictRetried() { r.conflictRetries.Inc() }

func (r *Recorder) EscalationCreated(reason string) {
	r.escalationsCreated.WithLabelValues(reason).Inc()
}

func (r *Recorder) EscalationRejected(reason string) {
	r.escalationsRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) IntentSent(kind string)         { r.intents.WithLabelValues(kind, "sent").Inc() }
func (r *Recorder) IntentDeduplicated(kind string) { r.intents.WithLabelValues(kind, "deduplicated").Inc() }
func (r *Recorder) IntentFailed(kind string)       { r.intents.WithLabelValues(kind, "failed").Inc() }

func (r *Recorder) SweepFinished(dryRun bool, overdue int, duration time.Duration) {
	r.sweepRuns.WithLabelValues(strconv.FormatBool(dryRun)).Inc()
	if !dryRun {
		r.sweepOverdue.Add(float64(overdue))
	}
	r.sweepDuration.Observe(duration.Seconds())
}

func (r *Recorder) HTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
