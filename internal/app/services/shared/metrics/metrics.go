package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "clinic_portal"

// AvailabilityMetrics counts expansion output and the instances dropped on the way.
type AvailabilityMetrics struct {
	eventsEmitted   prometheus.Counter
	instanceSkipped *prometheus.CounterVec
	expansionFailed prometheus.Counter
}

func NewAvailabilityMetrics(reg prometheus.Registerer) *AvailabilityMetrics {
	m := &AvailabilityMetrics{
		eventsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "events_emitted_total",
			Help:      "Calendar events produced by weekly availability expansion",
		}),
		instanceSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "instances_skipped_total",
			Help:      "Slot instances omitted during expansion",
		}, []string{"reason"}),
		expansionFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "availability",
			Name:      "expansion_failed_total",
			Help:      "Expansions aborted by an unexpected error",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.eventsEmitted, m.instanceSkipped, m.expansionFailed)
	return m
}

func (m *AvailabilityMetrics) ObserveEmitted(n int) {
	if m == nil {
		return
	}
	m.eventsEmitted.Add(float64(n))
}

func (m *AvailabilityMetrics) ObserveSkipped(reason string) {
	if m == nil {
		return
	}
	m.instanceSkipped.WithLabelValues(reason).Inc()
}

func (m *AvailabilityMetrics) ObserveFailure() {
	if m == nil {
		return
	}
	m.expansionFailed.Inc()
}

// RequestQueueMetrics tracks outgoing Supabase calls admitted through the request queue.
type RequestQueueMetrics struct {
	queued   *prometheus.CounterVec
	retries  prometheus.Counter
	inFlight prometheus.Gauge
	latency  *prometheus.HistogramVec
	waits    prometheus.Histogram
}

func NewRequestQueueMetrics(reg prometheus.Registerer) *RequestQueueMetrics {
	m := &RequestQueueMetrics{
		queued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "request_queue",
			Name:      "queued_total",
			Help:      "Requests submitted to the outgoing request queue",
		}, []string{"priority"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "request_queue",
			Name:      "retries_total",
			Help:      "Retries performed after retryable failures",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "request_queue",
			Name:      "in_flight",
			Help:      "Requests currently executing",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "request_queue",
			Name:      "duration_seconds",
			Help:      "Time from submission to completion",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		waits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rate_limiter",
			Name:      "wait_seconds",
			Help:      "Time spent waiting for a token bucket admission",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.queued, m.retries, m.inFlight, m.latency, m.waits)
	return m
}

func (m *RequestQueueMetrics) ObserveQueued(priority string) {
	if m == nil {
		return
	}
	m.queued.WithLabelValues(priority).Inc()
}

func (m *RequestQueueMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *RequestQueueMetrics) IncInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *RequestQueueMetrics) DecInFlight() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}

func (m *RequestQueueMetrics) ObserveDone(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(outcome).Observe(seconds)
}

func (m *RequestQueueMetrics) ObserveLimiterWait(seconds float64) {
	if m == nil {
		return
	}
	m.waits.Observe(seconds)
}

// RealtimeMetrics counts realtime connection churn and dispatched change payloads.
type RealtimeMetrics struct {
	reconnects prometheus.Counter
	changes    *prometheus.CounterVec
}

func NewRealtimeMetrics(reg prometheus.Registerer) *RealtimeMetrics {
	m := &RealtimeMetrics{
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "reconnects_total",
			Help:      "Realtime websocket reconnect attempts",
		}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "changes_total",
			Help:      "Postgres change payloads dispatched to handlers",
		}, []string{"table", "type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.reconnects, m.changes)
	return m
}

func (m *RealtimeMetrics) ObserveReconnect() {
	if m == nil {
		return
	}
	m.reconnects.Inc()
}

func (m *RealtimeMetrics) ObserveChange(table, changeType string) {
	if m == nil {
		return
	}
	m.changes.WithLabelValues(table, changeType).Inc()
}

// DocumentMetrics tracks the PDF pipeline.
type DocumentMetrics struct {
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
}

func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	m := &DocumentMetrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "renders_total",
			Help:      "Document renders by template and outcome",
		}, []string{"template", "outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "documents",
			Name:      "render_duration_seconds",
			Help:      "HTML to PDF render latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.renders, m.renderDuration)
	return m
}

func (m *DocumentMetrics) ObserveRender(template, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(template, outcome).Inc()
	m.renderDuration.Observe(seconds)
}

// HTTPMetrics records served requests by route pattern.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served by method, route and status class",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *HTTPMetrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(seconds)
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
