package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_tasks_created_total",
		Help: "Total number of download tasks created",
	})

	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_tasks_completed_total",
		Help: "Total number of download tasks completed",
	})

	TasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_tasks_failed_total",
		Help: "Total number of download tasks failed",
	})

	ProbesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_probes_total",
		Help: "Total number of metadata probes",
	})

	ProbesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_probes_failed_total",
		Help: "Total number of failed metadata probes",
	})

	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_uploads_total",
		Help: "Total number of remote sync uploads attempted",
	})

	UploadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_uploads_failed_total",
		Help: "Total number of failed remote sync uploads",
	})

	DownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "accio_download_duration_seconds",
		Help:    "Download duration in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	DownloadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "accio_download_bytes_total",
		Help: "Total bytes downloaded",
	})
)
