package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// RPC call rate per method. Watch for: error vs success ratio.
	rpcCallsTotal *prometheus.CounterVec

	// RPC latency per method. Watch for: p95 increases (server degradation),
	// p99 near the configured timeout (retry pressure).
	rpcDuration *prometheus.HistogramVec

	// Retry attempts across all RPCs. Watch for: sustained growth = unstable server.
	rpcRetriesTotal prometheus.Counter

	// Circuit breaker rejections. Watch for: bursts after server outages.
	rpcBreakerOpenTotal prometheus.Counter

	// Activated clients currently alive in this process.
	activeClients prometheus.Gauge

	// Snapshot cache operations by result. Hit rate = hit/(hit+miss).
	snapshotCacheTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rpcCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docsync_rpc_calls_total",
		Help: "RPC calls by method and status.",
	}, []string{"method", "status"})

	rpcDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "docsync_rpc_duration_seconds",
		Help:    "RPC latency by method and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	rpcRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "docsync_rpc_retries_total",
		Help: "RPC retry attempts.",
	})

	rpcBreakerOpenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "docsync_rpc_breaker_open_total",
		Help: "RPC calls rejected by an open circuit breaker.",
	})

	activeClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "docsync_active_clients",
		Help: "Activated clients currently alive in this process.",
	})

	snapshotCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "docsync_snapshot_cache_total",
		Help: "Snapshot cache operations by result.",
	}, []string{"result"})

	registry.MustRegister(
		rpcCallsTotal,
		rpcDuration,
		rpcRetriesTotal,
		rpcBreakerOpenTotal,
		activeClients,
		snapshotCacheTotal,
	)
}

// MetricsHandler returns the HTTP handler exposing the SDK registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// RecordRPC records one RPC call with its latency.
func RecordRPC(method, status string, duration time.Duration) {
	rpcCallsTotal.WithLabelValues(method, status).Inc()
	rpcDuration.WithLabelValues(method, status).Observe(duration.Seconds())
}

// RecordRPCRetry records one retry attempt.
func RecordRPCRetry() {
	rpcRetriesTotal.Inc()
}

// RecordBreakerOpen records a call rejected by an open circuit breaker.
func RecordBreakerOpen() {
	rpcBreakerOpenTotal.Inc()
}

// ClientActivated adjusts the active client gauge on activation.
func ClientActivated() {
	activeClients.Inc()
}

// ClientDeactivated adjusts the active client gauge on deactivation.
func ClientDeactivated() {
	activeClients.Dec()
}

// RecordSnapshotCache records one snapshot cache operation result, such
// as "hit", "miss", "stored" or "error".
func RecordSnapshotCache(result string) {
	snapshotCacheTotal.WithLabelValues(result).Inc()
}
