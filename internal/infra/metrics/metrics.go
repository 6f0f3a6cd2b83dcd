package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const jobName = "ticket_watcher"

// Check results used as the "result" label.
const (
	ResultAvailable   = "available"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

type Recorder interface {
	ObserveCheck(category, result string)
	ObserveNotification(err error)
	SetNextRun(at time.Time)
	Push(ctx context.Context) error
}

// PrometheusRecorder keeps the watcher's metrics on a private registry and
// pushes them to a Pushgateway, since the watcher exposes no HTTP endpoint.
type PrometheusRecorder struct {
	registry      *prometheus.Registry
	checks        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	nextRun       prometheus.Gauge
	pusher        *push.Pusher
}

// New returns a no-op recorder when pushgatewayURL is empty.
func New(pushgatewayURL string) Recorder {
	if pushgatewayURL == "" {
		return &noopRecorder{}
	}
	return NewPrometheusRecorder(pushgatewayURL)
}

func NewPrometheusRecorder(pushgatewayURL string) *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &PrometheusRecorder{
		registry: registry,
		checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_watcher_checks_total",
			Help: "Availability checks per category and result",
		}, []string{"category", "result"}),

		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ticket_watcher_notifications_total",
			Help: "Notifications attempted, by delivery result",
		}, []string{"result"}),

		nextRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ticket_watcher_next_run_timestamp_seconds",
			Help: "Unix time of the next scheduled availability check",
		}),
	}
	m.pusher = push.New(pushgatewayURL, jobName).Gatherer(registry)
	return m
}

func (m *PrometheusRecorder) ObserveCheck(category, result string) {
	m.checks.WithLabelValues(category, result).Inc()
}

func (m *PrometheusRecorder) ObserveNotification(err error) {
	if err != nil {
		m.notifications.WithLabelValues("failed").Inc()
		return
	}
	m.notifications.WithLabelValues("sent").Inc()
}

func (m *PrometheusRecorder) SetNextRun(at time.Time) {
	m.nextRun.Set(float64(at.Unix()))
}

func (m *PrometheusRecorder) Push(ctx context.Context) error {
	return m.pusher.PushContext(ctx)
}

// noopRecorder is used when no Pushgateway is configured.
type noopRecorder struct{}

func (n *noopRecorder) ObserveCheck(_, _ string)     {}
func (n *noopRecorder) ObserveNotification(_ error)  {}
func (n *noopRecorder) SetNextRun(_ time.Time)       {}
func (n *noopRecorder) Push(_ context.Context) error { return nil }
