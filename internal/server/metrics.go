package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hssdiameter/frontend/internal/registry"
)

// MetricsServer exposes a Prometheus scrape endpoint alongside the
// Reporter's periodic log lines — the one piece of observability surface
// this front-end carries beyond logging.
type MetricsServer struct {
	registry *prometheus.Registry
	http     *http.Server

	inboundTotal  prometheus.Counter
	outboundTotal prometheus.Counter
	activePeers   prometheus.Gauge
}

// NewMetricsServer builds a MetricsServer bound to addr. Call Serve to
// start it and Shutdown to stop it.
func NewMetricsServer(addr string) *MetricsServer {
	reg := prometheus.NewRegistry()

	ms := &MetricsServer{
		registry: reg,
		inboundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diameter_inbound_messages_total",
			Help: "Total number of Diameter frames published to the inbound queue.",
		}),
		outboundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diameter_outbound_messages_total",
			Help: "Total number of Diameter frames written back to peers.",
		}),
		activePeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "diameter_active_peers",
			Help: "Number of peers currently tracked in the peer registry.",
		}),
	}
	reg.MustRegister(ms.inboundTotal, ms.outboundTotal, ms.activePeers)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	ms.http = &http.Server{
		Addr:              addr,
		Handler:           mux,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return ms
}

// IncInbound implements connhandler.Counters by incrementing the
// cumulative Prometheus counter directly — unlike Reporter, MetricsServer
// never resets, since Prometheus counters are defined to only go up.
func (ms *MetricsServer) IncInbound() {
	ms.inboundTotal.Inc()
}

// IncOutbound implements connhandler.Counters.
func (ms *MetricsServer) IncOutbound() {
	ms.outboundTotal.Inc()
}

// WatchRegistry keeps the active-peers gauge in sync with reg's size every
// interval, until ctx is cancelled.
func (ms *MetricsServer) WatchRegistry(ctx context.Context, reg *registry.Registry, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.activePeers.Set(float64(reg.Len()))
		}
	}
}

// Serve runs the metrics HTTP server until Shutdown is called, logging and
// returning on any error other than the expected shutdown error.
func (ms *MetricsServer) Serve(log *zap.SugaredLogger) {
	log.Infow("metrics server listening", "addr", ms.http.Addr)
	if err := ms.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorw("metrics server stopped unexpectedly", "error", err)
	}
}

// Shutdown gracefully stops the metrics HTTP server.
func (ms *MetricsServer) Shutdown(ctx context.Context) error {
	return ms.http.Shutdown(ctx)
}
