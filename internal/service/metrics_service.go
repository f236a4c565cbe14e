package service

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appErrors "github.com/noah-isme/tutor-scheduling-api/pkg/errors"
	"github.com/noah-isme/tutor-scheduling-api/pkg/jobs"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic and scheduling operations.
// A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	operations      *prometheus.CounterVec
	appointments    *prometheus.GaugeVec
	bookedSlots     prometheus.Gauge
}

// NewMetricsService registers the collectors. queueStats may be nil when events are disabled.
func NewMetricsService(queueStats func() jobs.Stats) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduling_operations_total",
		Help: "Scheduling operations by outcome (ok or error code)",
	}, []string{"operation", "outcome"})

	appointments := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "appointments_total",
		Help: "Appointments held in memory by status",
	}, []string{"status"})

	bookedSlots := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "appointment_booked_slots",
		Help: "Slots currently occupied across all appointments",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, operations, appointments, bookedSlots, goroutines)

	if queueStats != nil {
		registry.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "appointment_events_pending",
				Help: "Events waiting in the dispatch buffer",
			}, func() float64 { return float64(queueStats().Pending) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Name: "appointment_events_dropped_total",
				Help: "Events dropped because the dispatch buffer was full",
			}, func() float64 { return float64(queueStats().Dropped) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Name: "appointment_events_failed_total",
				Help: "Events that exhausted their retries",
			}, func() float64 { return float64(queueStats().Failed) }),
		)
	}

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		operations:      operations,
		appointments:    appointments,
		bookedSlots:     bookedSlots,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordOperation counts a scheduling operation; the outcome label is "ok" or the lower-cased error code.
func (m *MetricsService) RecordOperation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(appErrors.FromError(err).Code)
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// AppointmentCreated moves the status gauges for a new OPEN appointment.
func (m *MetricsService) AppointmentCreated() {
	if m == nil {
		return
	}
	m.appointments.WithLabelValues("open").Inc()
}

// AppointmentCancelled moves one appointment from open to cancelled.
func (m *MetricsService) AppointmentCancelled() {
	if m == nil {
		return
	}
	m.appointments.WithLabelValues("open").Dec()
	m.appointments.WithLabelValues("cancelled").Inc()
}

// SlotsChanged adjusts the occupied-slot gauge by delta.
func (m *MetricsService) SlotsChanged(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.bookedSlots.Add(float64(delta))
}
