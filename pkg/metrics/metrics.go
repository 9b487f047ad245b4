// Package metrics exposes the Prometheus collectors for the gateway.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "token_quest"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by route pattern and status code",
		},
		[]string{"route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	RPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Blockchain RPC call latency, by method and result",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "result"},
	)
	SwapsSimulatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "simulated_total",
			Help:      "Successful simulated swaps",
		},
	)
	XPAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "swap",
			Name:      "xp_awarded_total",
			Help:      "Experience points awarded for simulated swaps",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RPCCallDuration,
		SwapsSimulatedTotal,
		XPAwardedTotal,
	)
}

// ObserveHTTP records a finished HTTP request.
func ObserveHTTP(route string, status int, start time.Time) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// ObserveRPC records a finished RPC call.
func ObserveRPC(method string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	RPCCallDuration.WithLabelValues(method, result).Observe(time.Since(start).Seconds())
}

// RecordSwap counts a simulated swap and the XP it earned.
func RecordSwap(xp int) {
	SwapsSimulatedTotal.Inc()
	XPAwardedTotal.Add(float64(xp))
}

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// NewServer returns an unstarted server exposing /metrics on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
