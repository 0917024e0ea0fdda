// Package rates keeps a lazily refreshed fiat exchange rate.
package rates

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

const (
	defaultRefreshInterval = 10 * time.Minute
	defaultFetchTimeout    = time.Minute
)

// Cache serves the last fetched rate and refreshes it on read once the refresh interval
// has elapsed. A failed refresh keeps the previous rate and still restarts the interval.
type Cache struct {
	provider Provider
	interval time.Duration
	clock    clock.Clock
	metrics  CacheMetrics
	logger   *zap.Logger

	fetchTimeout time.Duration

	mu    sync.RWMutex
	state model.ExchangeRate
	group singleflight.Group
}

// NewCache creates a Cache. The first read always fetches.
func NewCache(provider Provider, interval time.Duration, c clock.Clock, metrics CacheMetrics, logger *zap.Logger) (*Cache, error) {
	if provider == nil {
		return nil, errors.New("rate provider is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		provider: provider,
		interval: interval,
		clock:    c,
		metrics:  metrics,
		logger:   logger.Named("rates"),
		state:    model.ExchangeRate{LastFetchedAt: c.Now()},

		fetchTimeout: defaultFetchTimeout,
	}, nil
}

// Read returns the current rate. It never fails; zero means no rate has been fetched yet.
func (c *Cache) Read(ctx context.Context) float64 {
	if rate, ok := c.fresh(); ok {
		return rate
	}

	// The refresh runs detached from the caller; a caller that goes away gets the cached rate.
	ch := c.group.DoChan("rate", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.refresh(fetchCtx), nil
	})

	select {
	case <-ctx.Done():
		return c.State().Rate
	case res := <-ch:
		return res.Val.(float64)
	}
}

// State returns a snapshot of the cached rate.
func (c *Cache) State() model.ExchangeRate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Cache) fresh() (float64, bool) {
	now := c.clock.Now()

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state.Rate > 0 && now.Before(c.state.LastFetchedAt.Add(c.interval)) {
		return c.state.Rate, true
	}
	return 0, false
}

func (c *Cache) refresh(ctx context.Context) float64 {
	if rate, ok := c.fresh(); ok {
		return rate
	}

	rate, err := c.provider.FetchRate(ctx)
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		c.logger.Warn("exchange rate fetch canceled", zap.Float64("kept_rate", c.state.Rate), zap.Error(err))
		return c.state.Rate
	}
	c.state.LastFetchedAt = now
	if err != nil {
		c.logger.Error("refresh exchange rate", zap.Float64("kept_rate", c.state.Rate), zap.Error(err))
		return c.state.Rate
	}
	if rate < 0 {
		c.logger.Error("refresh exchange rate", zap.Float64("rejected_rate", rate), zap.Float64("kept_rate", c.state.Rate))
		return c.state.Rate
	}

	c.state.Rate = rate
	c.metrics.ObserveRate(rate)
	return rate
}
