package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rateFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "exchange_rate",
		Name:      "fetch_total",
		Help:      "Count of upstream exchange rate fetches.",
	}, []string{"provider", "status"})

	rateFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "exchange_rate",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of upstream exchange rate fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "status"})

	rateValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "blockinsight7000",
		Subsystem: "exchange_rate",
		Name:      "value",
		Help:      "Last served exchange rate.",
	}, []string{"provider"})
)

// ExchangeRate tracks metrics for an exchange rate provider.
type ExchangeRate struct {
	provider string
}

// NewExchangeRate constructs an ExchangeRate collector for the named provider.
func NewExchangeRate(provider string) *ExchangeRate {
	if provider == "" {
		provider = "unknown"
	}
	return &ExchangeRate{provider: provider}
}

// ObserveFetch records an upstream fetch outcome and duration.
func (m ExchangeRate) ObserveFetch(err error, started time.Time) {
	status := statusOf(err)
	rateFetchTotal.WithLabelValues(m.provider, status).Inc()
	rateFetchDuration.WithLabelValues(m.provider, status).Observe(time.Since(started).Seconds())
}

// ObserveRate records the rate currently held in cache.
func (m ExchangeRate) ObserveRate(rate float64) {
	rateValue.WithLabelValues(m.provider).Set(rate)
}
