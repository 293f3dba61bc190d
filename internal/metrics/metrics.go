package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP holds Prometheus collectors for the API surface.
type HTTP struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	QuizSelections   *prometheus.CounterVec
}

// NewHTTP registers the API collectors with reg. Pass prometheus.DefaultRegisterer in
// production so promhttp.Handler exposes them.
func NewHTTP(reg prometheus.Registerer, namespace string) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		QuizSelections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quiz",
				Name:      "selections_total",
				Help:      "Quiz question selections by outcome",
			},
			[]string{"outcome"}, // selected | exhausted
		),
	}
}

// ObserveQuizSelection records whether a quiz request produced a question.
func (m *HTTP) ObserveQuizSelection(found bool) {
	if m == nil {
		return
	}
	outcome := "exhausted"
	if found {
		outcome = "selected"
	}
	m.QuizSelections.WithLabelValues(outcome).Inc()
}
