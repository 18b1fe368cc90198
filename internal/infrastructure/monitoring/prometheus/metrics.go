package prometheus

import (
	"strconv"
	"time"
)

// Buckets for the metric families below.
var (
	DefaultHTTPDurationBuckets      = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultOperationDurationBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1}
)

// AppMetrics holds every metric the service exports.  It satisfies the
// application layer's Metrics port.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPInFlight        GaugeVec

	// Lifecycle
	OperationsTotal   CounterVec
	OperationDuration HistogramVec
	StageTransitions  CounterVec
	StageCompletions  CounterVec
	EventsPublished   CounterVec
	PatentsTracked    GaugeVec

	// Health
	ServiceUptime     GaugeVec
	HealthCheckStatus GaugeVec
}

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPInFlight = collector.RegisterGauge("http_requests_in_flight", "HTTP requests being served", "method")

	m.OperationsTotal = collector.RegisterCounter("lifecycle_operations_total", "Lifecycle service operations by outcome", "operation", "outcome")
	m.OperationDuration = collector.RegisterHistogram("lifecycle_operation_duration_seconds", "Lifecycle service operation duration", DefaultOperationDurationBuckets, "operation")
	m.StageTransitions = collector.RegisterCounter("lifecycle_stage_transitions_total", "Stage status changes", "from", "to")
	m.StageCompletions = collector.RegisterCounter("lifecycle_stage_completions_total", "Stages completed", "stage_id")
	m.EventsPublished = collector.RegisterCounter("lifecycle_events_published_total", "Lifecycle events handed to the publisher", "event_type", "result")
	m.PatentsTracked = collector.RegisterGauge("lifecycle_patents", "Patents currently tracked")

	m.ServiceUptime = collector.RegisterGauge("service_uptime_seconds", "Service uptime", "service")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

// ObserveOperation records one finished service operation.
func (m *AppMetrics) ObserveOperation(op, outcome string, d time.Duration) {
	m.OperationsTotal.WithLabelValues(op, outcome).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// StageTransition counts a status change of one stage.
func (m *AppMetrics) StageTransition(from, to string) {
	m.StageTransitions.WithLabelValues(from, to).Inc()
}

// StageCompleted counts a stage reaching COMPLETED for the first time.
func (m *AppMetrics) StageCompleted(stageID string) {
	m.StageCompletions.WithLabelValues(stageID).Inc()
}

// EventPublished counts a publish attempt.
func (m *AppMetrics) EventPublished(eventType string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

// SetPatentCount sets the tracked patents gauge.
func (m *AppMetrics) SetPatentCount(n int) {
	m.PatentsTracked.WithLabelValues().Set(float64(n))
}

// RecordHTTPRequest records one served request.  route is the matched route
// pattern, never the raw path, to bound label cardinality.
func (m *AppMetrics) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// TrackInFlight raises the in-flight gauge for method until the returned
// func is called.
func (m *AppMetrics) TrackInFlight(method string) func() {
	g := m.HTTPInFlight.WithLabelValues(method)
	g.Inc()
	return g.Dec
}

// SetHealth records the state of one dependency.
func (m *AppMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}

// SetUptime records how long service has been running.
func (m *AppMetrics) SetUptime(service string, d time.Duration) {
	m.ServiceUptime.WithLabelValues(service).Set(d.Seconds())
}

//Personal.AI order the ending
