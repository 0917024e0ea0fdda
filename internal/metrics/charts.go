package metrics

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chartBuildTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "charts",
		Name:      "build_total",
		Help:      "Count of chart computations.",
	}, []string{"category", "status"})

	chartBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "charts",
		Name:      "build_duration_seconds",
		Help:      "Duration of fetching blocks and aggregating a chart.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"category", "status"})

	chartBuildBlocks = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "charts",
		Name:      "build_blocks",
		Help:      "Number of blocks aggregated per chart.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"category"})

	chartCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "charts",
		Name:      "cache_lookups_total",
		Help:      "Count of chart cache lookups by result.",
	}, []string{"category", "result"})
)

// Charts tracks metrics for the chart service.
type Charts struct{}

// NewCharts constructs a Charts collector.
func NewCharts() *Charts {
	return &Charts{}
}

// ObserveBuild records a chart computation outcome, duration and size.
func (m Charts) ObserveBuild(category model.Category, err error, blocks int, started time.Time) {
	status := statusOf(err)
	chartBuildTotal.WithLabelValues(string(category), status).Inc()
	chartBuildDuration.WithLabelValues(string(category), status).Observe(time.Since(started).Seconds())
	if err == nil {
		chartBuildBlocks.WithLabelValues(string(category)).Observe(float64(blocks))
	}
}

// ObserveCache records a cache hit or miss.
func (m Charts) ObserveCache(category model.Category, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	chartCacheLookups.WithLabelValues(string(category), result).Inc()
}
