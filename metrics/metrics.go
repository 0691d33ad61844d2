// Package metrics exposes Prometheus instrumentation for the resolution
// gateway on a dedicated listener.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ResolveRequests counts attestation requests by outcome: ok,
	// not_found, bad_domain, upstream_error, signing_error, internal_error.
	ResolveRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_resolve_requests_total",
		Help: "Attestation requests served, labeled by outcome.",
	}, []string{"outcome"})

	// ResolveDuration observes end-to-end attestation latency in seconds.
	ResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gateway_resolve_duration_seconds",
		Help:    "End-to-end attestation latency.",
		Buckets: prometheus.DefBuckets,
	})

	// UpstreamLookups counts data source lookups by backend name and result.
	UpstreamLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_upstream_lookups_total",
		Help: "Data source lookups, labeled by backend and result.",
	}, []string{"backend", "result"})
)

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr. The name is kept for the
// process identity reported alongside the metrics.
func New(name, addr string) (*MetricsServer, error) {
	if addr == "" {
		return nil, fmt.Errorf("metrics listen address is empty")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s metrics\n", name)
	})

	return &MetricsServer{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics listener.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
