// Package metrics exposes the server's Prometheus collectors and the
// /metrics HTTP endpoint.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mint outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeValidation    = "validation"
	OutcomeTransaction   = "transaction"
	OutcomeNoTokenID     = "no_token_id"
	OutcomePersistFailed = "persist_failed"
)

type Metrics struct {
	registry *prometheus.Registry

	mintTotal    *prometheus.CounterVec
	mintDuration *prometheus.HistogramVec
	rpcTotal     *prometheus.CounterVec
	eventErrors  prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		mintTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shipmarket_mint_total",
			Help: "mint-then-persist attempts by flow and outcome",
		}, []string{"flow", "outcome"}),
		mintDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shipmarket_mint_duration_seconds",
			Help:    "time from submit to persisted row",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}, []string{"flow"}),
		rpcTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "shipmarket_grpc_requests_total",
			Help: "gRPC requests by method and status code",
		}, []string{"method", "code"}),
		eventErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "shipmarket_event_publish_errors_total",
			Help: "change events that failed to publish",
		}),
	}
}

func (m *Metrics) MintOutcome(flow, outcome string) {
	m.mintTotal.WithLabelValues(flow, outcome).Inc()
}

func (m *Metrics) MintDuration(flow string, d time.Duration) {
	m.mintDuration.WithLabelValues(flow).Observe(d.Seconds())
}

func (m *Metrics) RPC(method, code string) {
	m.rpcTotal.WithLabelValues(method, code).Inc()
}

func (m *Metrics) EventPublishFailed() {
	m.eventErrors.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// NewHTTPServer returns a server with /metrics mounted on addr.
func (m *Metrics) NewHTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
