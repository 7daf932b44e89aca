// Package metrics exposes the Prometheus collectors of the service: redirect
// clicks, feed sync outcomes, retention removals and job durations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Redirect metrics
	ClicksRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bitbuddies_link_clicks_total",
			Help: "Total number of recorded affiliate link clicks",
		},
	)

	RedirectsUnresolved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bitbuddies_link_redirects_unresolved_total",
			Help: "Total number of redirects for missing or inactive slugs",
		},
	)

	LinkCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitbuddies_link_cache_lookups_total",
			Help: "Slug cache lookups by result",
		},
		[]string{"result"},
	)

	// Feed sync metrics
	ChannelSyncs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitbuddies_channel_syncs_total",
			Help: "Channel feed syncs by status",
		},
		[]string{"status"},
	)

	VideosSynced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bitbuddies_videos_synced_total",
			Help: "Videos reconciled from feeds by kind (new, updated)",
		},
		[]string{"kind"},
	)

	VideosRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bitbuddies_videos_removed_total",
			Help: "Videos removed by the retention job",
		},
	)

	JobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bitbuddies_job_duration_seconds",
			Help:    "Duration of background jobs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)
)

func init() {
	prometheus.MustRegister(ClicksRecorded)
	prometheus.MustRegister(RedirectsUnresolved)
	prometheus.MustRegister(LinkCacheLookups)
	prometheus.MustRegister(ChannelSyncs)
	prometheus.MustRegister(VideosSynced)
	prometheus.MustRegister(VideosRemoved)
	prometheus.MustRegister(JobDuration)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the time elapsed since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time on h.
func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}

// ObserveDurationVec records the elapsed time on the labelled child of h.
func (t *Timer) ObserveDurationVec(h *prometheus.HistogramVec, labels ...string) {
	h.WithLabelValues(labels...).Observe(t.Duration().Seconds())
}
