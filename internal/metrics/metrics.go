package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TaskProcessed  *prometheus.CounterVec
	APIErrors      prometheus.Counter
	RequestSeconds *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
	Distance       *prometheus.HistogramVec
	OutOfRange     prometheus.Counter
}

// distanceBuckets spans neighbourhood to intercontinental distances.
var distanceBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TaskProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geodist_tasks_processed_total",
			Help: "Total number of processed tasks.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geodist_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geodist_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geodist_active_workers",
			Help: "Current number of active workers processing tasks.",
		}),
		Distance: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geodist_task_distance",
			Help:    "Great-circle distance of processed tasks from the origin.",
			Buckets: distanceBuckets,
		}, []string{"unit"}),
		OutOfRange: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geodist_tasks_out_of_range_total",
			Help: "Total number of tasks rejected for exceeding the maximum distance.",
		}),
	}
}
