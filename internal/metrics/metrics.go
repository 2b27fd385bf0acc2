// Package metrics exposes dashboard activity as Prometheus series.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketpulse_refreshes_total",
			Help: "Total number of dashboard loads",
		},
		[]string{"status"}, // status: success|error|ignored
	)

	RefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marketpulse_refresh_duration_seconds",
			Help:    "Dashboard load duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	FetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketpulse_fetch_errors_total",
			Help: "Total number of failed source fetches",
		},
		[]string{"source"},
	)

	Articles = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketpulse_articles",
			Help: "Articles in the current snapshot",
		},
	)

	FearGreedIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "marketpulse_fear_greed_index",
			Help: "Current fear/greed index (-100..100)",
		},
	)

	TopicMentions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "marketpulse_topic_mentions",
			Help: "Headline mentions per trending topic in the current snapshot",
		},
		[]string{"topic"},
	)
)

var once sync.Once

// Init registers all series with the default registry. Safe to call more than once.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(Refreshes)
		prometheus.MustRegister(RefreshDuration)
		prometheus.MustRegister(FetchErrors)
		prometheus.MustRegister(Articles)
		prometheus.MustRegister(FearGreedIndex)
		prometheus.MustRegister(TopicMentions)
	})
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Recorder receives dashboard measurements.
type Recorder interface {
	RecordRefresh(duration time.Duration, err error)
	RecordIgnored()
	RecordFetchError(source string)
	RecordSnapshot(articles, index int, topics map[string]int)
}

// Prometheus records into the package-level series.
type Prometheus struct{}

func (Prometheus) RecordRefresh(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Refreshes.WithLabelValues(status).Inc()
	RefreshDuration.Observe(duration.Seconds())
}

func (Prometheus) RecordIgnored() {
	Refreshes.WithLabelValues("ignored").Inc()
}

func (Prometheus) RecordFetchError(source string) {
	FetchErrors.WithLabelValues(source).Inc()
}

func (Prometheus) RecordSnapshot(articles, index int, topics map[string]int) {
	Articles.Set(float64(articles))
	FearGreedIndex.Set(float64(index))
	TopicMentions.Reset()
	for name, n := range topics {
		TopicMentions.WithLabelValues(name).Set(float64(n))
	}
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordRefresh(time.Duration, error)      {}
func (Noop) RecordIgnored()                          {}
func (Noop) RecordFetchError(string)                 {}
func (Noop) RecordSnapshot(int, int, map[string]int) {}
