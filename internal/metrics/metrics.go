// Package metrics exposes Prometheus collectors for the envelope pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fmcpx"

// Service owns a private registry so several instances can live in one
// process (tests, embedded servers).
type Service struct {
	registry *prometheus.Registry

	envelopesTotal     *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	verificationsTotal *prometheus.CounterVec
	keyLoadsTotal      *prometheus.CounterVec
	asyncInFlight      prometheus.Gauge
	httpRequestsTotal  *prometheus.CounterVec
}

func New() *Service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Service{
		registry: reg,
		envelopesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "envelopes_total",
				Help:      "Executions by mode (sync, async) and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upstream_duration_seconds",
				Help:      "Latency of upstream query calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		verificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Signature verifications by result.",
			},
			[]string{"result"},
		),
		keyLoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "key_loads_total",
				Help:      "Signing key load attempts by source and outcome.",
			},
			[]string{"source", "outcome"},
		),
		asyncInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "async_in_flight",
				Help:      "Async executions currently holding a worker slot.",
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (s *Service) ObserveEnvelope(mode string, err error) {
	s.envelopesTotal.WithLabelValues(mode, outcome(err)).Inc()
}

func (s *Service) ObserveUpstream(d time.Duration, err error) {
	s.upstreamDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func (s *Service) ObserveVerification(valid bool) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	s.verificationsTotal.WithLabelValues(result).Inc()
}

// ObserveKeyLoad matches key.LoadObserver.
func (s *Service) ObserveKeyLoad(source string, err error) {
	s.keyLoadsTotal.WithLabelValues(source, outcome(err)).Inc()
}

func (s *Service) AsyncStarted()  { s.asyncInFlight.Inc() }
func (s *Service) AsyncFinished() { s.asyncInFlight.Dec() }

func (s *Service) ObserveHTTP(method, route, status string) {
	s.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
