package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's collectors on their own registry.
type Metrics struct {
	reg *prometheus.Registry

	simulations       *prometheus.CounterVec
	simulationSeconds *prometheus.HistogramVec
	selfSufficiency   *prometheus.GaugeVec
	providerErrors    *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	storedSessions    prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		simulations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_simulations_total",
			Help: "Simulations run, by generation source and outcome.",
		}, []string{"source", "outcome"}),
		simulationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "solarsim_simulation_duration_seconds",
			Help:    "Time to fetch generation and run one simulation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		selfSufficiency: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "solarsim_last_self_sufficiency_pct",
			Help: "Self-sufficiency of the most recent simulation per battery preset.",
		}, []string{"preset"}),
		providerErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_provider_errors_total",
			Help: "Failed calls to irradiance providers.",
		}, []string{"provider", "code"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "solarsim_http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		storedSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "solarsim_stored_simulations",
			Help: "Simulation results currently held for trace download.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveSimulation records one simulation. A nil receiver is a no-op so
// callers can run without metrics.
func (m *Metrics) ObserveSimulation(source string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.simulations.WithLabelValues(source, outcome).Inc()
	m.simulationSeconds.WithLabelValues(source).Observe(elapsed.Seconds())
}

func (m *Metrics) SetSelfSufficiency(preset string, pct float64) {
	if m == nil {
		return
	}
	m.selfSufficiency.WithLabelValues(preset).Set(pct)
}

func (m *Metrics) ProviderError(provider, code string) {
	if m == nil {
		return
	}
	m.providerErrors.WithLabelValues(provider, code).Inc()
}

func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) SetStoredSimulations(n int) {
	if m == nil {
		return
	}
	m.storedSessions.Set(float64(n))
}
