package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the hostel
// service.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	allocations     *prometheus.CounterVec
	complaints      *prometheus.CounterVec
	leaves          *prometheus.CounterVec
	massUpdates     *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
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

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "room_query_cache_hits_total",
		Help: "Total room query cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "room_query_cache_misses_total",
		Help: "Total room query cache misses",
	})

	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hostel_allocations_total",
		Help: "Allocation lifecycle operations by outcome",
	}, []string{"operation", "outcome"})

	complaints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hostel_complaint_transitions_total",
		Help: "Complaint state transitions",
	}, []string{"to_status"})

	leaves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hostel_leave_transitions_total",
		Help: "Leave request state transitions",
	}, []string{"to_status"})

	massUpdates := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hostel_mass_update_rooms",
		Help:    "Rooms touched per mass update run",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
	}, []string{"kind"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, allocations, complaints, leaves, massUpdates, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		allocations:     allocations,
		complaints:      complaints,
		leaves:          leaves,
		massUpdates:     massUpdates,
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

// ObserveHTTPRequest records per-request duration and count.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheLookup records a room query cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordAllocation counts an allocation operation by outcome.
func (m *MetricsService) RecordAllocation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.allocations.WithLabelValues(operation, outcome).Inc()
}

// RecordComplaintTransition counts a complaint landing in a state.
func (m *MetricsService) RecordComplaintTransition(toStatus string) {
	if m == nil {
		return
	}
	m.complaints.WithLabelValues(toStatus).Inc()
}

// RecordLeaveTransition counts a leave request landing in a state.
func (m *MetricsService) RecordLeaveTransition(toStatus string) {
	if m == nil {
		return
	}
	m.leaves.WithLabelValues(toStatus).Inc()
}

// RecordMassUpdate observes the size of a mass update run.
func (m *MetricsService) RecordMassUpdate(kind string, matched int) {
	if m == nil {
		return
	}
	m.massUpdates.WithLabelValues(kind).Observe(float64(matched))
}
