package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the pipeline services.
type Metrics struct {
	// Generator metrics
	EventsGenerated *prometheus.CounterVec
	EventsPersisted *prometheus.CounterVec

	// Processing metrics
	EventsProcessed    *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	ProcessingDuration prometheus.Histogram

	// Storage metrics
	ObjectsWritten *prometheus.CounterVec
	ObjectSize     *prometheus.HistogramVec
	StorageErrors  *prometheus.CounterVec

	// Catalog metrics
	PartitionsRegistered *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		EventsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_events_generated_total",
				Help: "Total number of synthetic trip events generated",
			},
			[]string{"event_type"},
		),
		EventsPersisted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_events_persisted_total",
				Help: "Total number of raw trip events persisted to the object store",
			},
			[]string{"event_type", "status"},
		),
		EventsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_events_processed_total",
				Help: "Total number of raw trip events processed",
			},
			[]string{"status"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trip_event_validation_failures_total",
				Help: "Total number of trip event validation failures",
			},
			[]string{"check"},
		),
		ProcessingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trip_event_processing_duration_seconds",
				Help:    "Duration of raw-to-curated processing",
				Buckets: prometheus.DefBuckets,
			},
		),
		ObjectsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_objects_written_total",
				Help: "Total number of objects written to storage",
			},
			[]string{"backend", "status"},
		),
		ObjectSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storage_object_size_bytes",
				Help:    "Size of objects written to storage",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"backend"},
		),
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storage_errors_total",
				Help: "Total number of storage operation errors",
			},
			[]string{"backend", "operation"},
		),
		PartitionsRegistered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_partitions_registered_total",
				Help: "Total number of partition registrations submitted to the catalog",
			},
			[]string{"status"},
		),
	}
}

// IncEventsGenerated increments the generated events counter.
func (m *Metrics) IncEventsGenerated(eventType string) {
	m.EventsGenerated.WithLabelValues(eventType).Inc()
}

// IncEventsPersisted increments the persisted events counter.
func (m *Metrics) IncEventsPersisted(eventType string, status string) {
	m.EventsPersisted.WithLabelValues(eventType, status).Inc()
}

// IncEventsProcessed increments the processed events counter.
func (m *Metrics) IncEventsProcessed(status string) {
	m.EventsProcessed.WithLabelValues(status).Inc()
}

// IncValidationFailures increments the validation failure counter.
func (m *Metrics) IncValidationFailures(check string) {
	m.ValidationFailures.WithLabelValues(check).Inc()
}

// ObserveProcessingDuration records a processing duration.
func (m *Metrics) ObserveProcessingDuration(seconds float64) {
	m.ProcessingDuration.Observe(seconds)
}

// IncObjectsWritten increments the objects written counter.
func (m *Metrics) IncObjectsWritten(backend string, status string) {
	m.ObjectsWritten.WithLabelValues(backend, status).Inc()
}

// ObserveObjectSize records a written object size.
func (m *Metrics) ObserveObjectSize(backend string, size float64) {
	m.ObjectSize.WithLabelValues(backend).Observe(size)
}

// IncStorageErrors increments the storage error counter.
func (m *Metrics) IncStorageErrors(backend string, operation string) {
	m.StorageErrors.WithLabelValues(backend, operation).Inc()
}

// IncPartitionsRegistered increments the partition registration counter.
func (m *Metrics) IncPartitionsRegistered(status string) {
	m.PartitionsRegistered.WithLabelValues(status).Inc()
}
