package metrics

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/indigo-web/minihttp/http/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "minihttp"

// Metrics groups the server's counters on a private registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry    *prometheus.Registry
	connections prometheus.Counter
	requests    *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
	saved       prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		connections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Accepted TCP connections",
		}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Routed requests, labeled by route and response code",
		}, []string{"route", "code"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_outcomes_total",
			Help:      "How connections ended: responded, dropped or failed",
		}, []string{"outcome"}),
		saved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saved_records_total",
			Help:      "Records appended to the store",
		}),
	}
}

func (m *Metrics) Connection() {
	if m != nil {
		m.connections.Inc()
	}
}

func (m *Metrics) Request(route string, code status.Code) {
	if m != nil {
		m.requests.WithLabelValues(route, status.StringCode(code)).Inc()
	}
}

func (m *Metrics) Outcome(outcome string) {
	if m != nil {
		m.outcomes.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) Saved() {
	if m != nil {
		m.saved.Inc()
	}
}

// Registry exposes the underlying registry, e.g. for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() stdhttp.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on the listener until the context is done.
func (m *Metrics) Serve(ctx context.Context, l net.Listener) error {
	mux := stdhttp.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &stdhttp.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(l); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}

	return nil
}
