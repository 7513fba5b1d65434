package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "murmur"

var (
	Registry = prometheus.NewRegistry()

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests to the service.",
		},
		[]string{"op", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests to the service.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 13),
		},
		[]string{"op"},
	)

	// ---- Process / build info ----
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build info (constant 1, labeled by version and git_sha).",
		},
		[]string{"version", "git_sha"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(RequestsTotal, RequestDuration, buildInfo, uptime)
}

// MetricsHandler exposes /metrics. Mount it with mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetBuildInfo should be called once at startup.
func SetBuildInfo(version, gitSHA string) {
	buildInfo.WithLabelValues(version, gitSHA).Set(1)
}

// Ack results.
const (
	AckMatched = "matched"
	AckUnknown = "unknown"
)

// Metrics holds the protocol metrics of one node. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	received *prometheus.CounterVec
	sent     *prometheus.CounterVec
	retries  prometheus.Counter
	acks     *prometheus.CounterVec
	pending  prometheus.Gauge
	seen     prometheus.Gauge
}

// NewMetrics creates the node metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		received: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_received_total",
				Help:      "Messages handed to the node, by body type.",
			},
			[]string{"type"},
		),
		sent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "messages_sent_total",
				Help:      "Messages successfully handed to the transport, by body type.",
			},
			[]string{"type"},
		),
		retries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Broadcasts resent because they were not acknowledged.",
			},
		),
		acks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "acks_total",
				Help:      "broadcast_ok messages, by whether they matched a pending broadcast.",
			},
			[]string{"result"},
		),
		pending: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_obligations",
				Help:      "Broadcasts awaiting an acknowledgement.",
			},
		),
		seen: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "seen_values",
				Help:      "Distinct broadcast values observed.",
			},
		),
	}

	reg.MustRegister(m.received, m.sent, m.retries, m.acks, m.pending, m.seen)

	return m
}

// MessageReceived ...
func (m *Metrics) MessageReceived(typ string) {
	if m == nil {
		return
	}
	m.received.WithLabelValues(typ).Inc()
}

// MessageSent ...
func (m *Metrics) MessageSent(typ string) {
	if m == nil {
		return
	}
	m.sent.WithLabelValues(typ).Inc()
}

// Retries adds n resent broadcasts.
func (m *Metrics) Retries(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.retries.Add(float64(n))
}

// Acks adds n acknowledgements with the given result.
func (m *Metrics) Acks(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.acks.WithLabelValues(result).Add(float64(n))
}

// SetPending ...
func (m *Metrics) SetPending(n int) {
	if m == nil {
		return
	}
	m.pending.Set(float64(n))
}

// SetSeen ...
func (m *Metrics) SetSeen(n int) {
	if m == nil {
		return
	}
	m.seen.Set(float64(n))
}

// ---- Middleware instrumentation ----

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Instrument wraps an http.Handler to record metrics under the provided "op" label.
func Instrument(op string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: 200}
		start := time.Now()

		next.ServeHTTP(sw, r)

		class := strconv.Itoa(sw.status/100) + "xx"
		RequestsTotal.WithLabelValues(op, class).Inc()
		RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	})
}
