// Package metrics exposes Prometheus collectors for the upload API: request
// durations, upload byte counts, and receiver fault counts by error kind.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the collectors this service registers. All methods are
// nil-safe: calls on a nil *Metrics are no-ops, so callers that construct
// Metrics only when enabled don't need to guard every call site.
type Metrics struct {
	uploadDuration *prometheus.HistogramVec
	uploadBytes    *prometheus.HistogramVec
	uploadFaults   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// New creates and registers the service's collectors with reg. If reg is
// nil, collectors are created but not registered, for use in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		uploadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uploadsvc",
			Subsystem: "upload",
			Name:      "duration_seconds",
			Help:      "Time to fully decode and write a multipart/form-data upload request",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		uploadBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uploadsvc",
			Subsystem: "upload",
			Name:      "bytes",
			Help:      "Total bytes written across all parts of an upload request",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}, []string{"status"}),
		uploadFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uploadsvc",
			Subsystem: "upload",
			Name:      "faults_total",
			Help:      "Total number of failed upload requests, labeled by receiver error kind",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uploadsvc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests, labeled by route and status",
		}, []string{"route", "status"}),
	}

	if reg != nil {
		m.uploadDuration = registerOrReuse(reg, m.uploadDuration).(*prometheus.HistogramVec)
		m.uploadBytes = registerOrReuse(reg, m.uploadBytes).(*prometheus.HistogramVec)
		m.uploadFaults = registerOrReuse(reg, m.uploadFaults).(*prometheus.CounterVec)
		m.httpRequests = registerOrReuse(reg, m.httpRequests).(*prometheus.CounterVec)
	}

	return m
}

// registerOrReuse registers c with reg, returning the already-registered
// collector instead of panicking if c was registered previously (as happens
// across server restarts that reuse the default registry).
func registerOrReuse(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}

// ObserveUpload records the outcome of one upload request: its wall-clock
// duration, total bytes written, and (on failure) the classified error kind.
func (m *Metrics) ObserveUpload(status string, durationSeconds float64, bytesWritten int64, faultKind string) {
	if m == nil {
		return
	}
	m.uploadDuration.WithLabelValues(status).Observe(durationSeconds)
	m.uploadBytes.WithLabelValues(status).Observe(float64(bytesWritten))
	if faultKind != "" {
		m.uploadFaults.WithLabelValues(faultKind).Inc()
	}
}

// ObserveHTTPRequest increments the request counter for route and status.
func (m *Metrics) ObserveHTTPRequest(route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
}
