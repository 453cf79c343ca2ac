package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prediction outcome labels.
const (
	OutcomeSuccess          = "success"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomeNoFile           = "no_file"
	OutcomeError            = "error"
)

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	predictions     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "herbalif_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "herbalif_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObservePrediction(outcome string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, routeLabel(path), strconv.Itoa(status)).Observe(duration.Seconds())
}

// routeLabel keeps the path label bounded.
func routeLabel(path string) string {
	switch {
	case path == "/", path == "/predict", path == "/history", path == "/metrics", path == "/ws/predictions":
		return path
	case strings.HasPrefix(path, "/history/"):
		return "/history/{id}"
	default:
		return "other"
	}
}
