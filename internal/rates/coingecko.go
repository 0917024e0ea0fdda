package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultCoinGeckoURL      = "https://api.coingecko.com"
	defaultRequestsPerMinute = 10
	defaultMaxAttempts       = 3
	defaultRetryInterval     = 500 * time.Millisecond
	maxResponseBytes         = 1 << 20
)

// ErrRateMissing is returned when the response lacks the requested coin or currency.
var ErrRateMissing = errors.New("rate missing from response")

// CoinGeckoConfig selects the price pair and request budget.
type CoinGeckoConfig struct {
	BaseURL           string
	CoinID            string
	VsCurrency        string
	RequestsPerMinute int
	MaxAttempts       int
	RetryInterval     time.Duration
}

// CoinGecko fetches spot prices from the CoinGecko simple price API.
type CoinGecko struct {
	client  *http.Client
	cfg     CoinGeckoConfig
	limiter ratelimit.Limiter
	metrics FetchMetrics
	logger  *zap.Logger
}

// NewCoinGecko constructs a throttled CoinGecko provider.
func NewCoinGecko(client *http.Client, cfg CoinGeckoConfig, metrics FetchMetrics, logger *zap.Logger) (*CoinGecko, error) {
	if cfg.CoinID == "" {
		return nil, errors.New("coin id is required")
	}
	if cfg.VsCurrency == "" {
		return nil, errors.New("vs currency is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCoinGeckoURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = defaultRequestsPerMinute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = defaultRetryInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.CoinID = strings.ToLower(cfg.CoinID)
	cfg.VsCurrency = strings.ToLower(cfg.VsCurrency)

	return &CoinGecko{
		client:  client,
		cfg:     cfg,
		limiter: ratelimit.New(cfg.RequestsPerMinute, ratelimit.Per(time.Minute)),
		metrics: metrics,
		logger:  logger.Named("coingecko"),
	}, nil
}

// FetchRate returns the price of the configured coin in the configured currency.
// Transport failures, 429 and 5xx responses are retried with exponential backoff.
func (g *CoinGecko) FetchRate(ctx context.Context) (rate float64, err error) {
	started := time.Now()
	defer func() {
		g.metrics.ObserveFetch(err, started)
	}()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = g.cfg.RetryInterval
	policy.MaxElapsedTime = 0
	policy.Reset()

	op := func() error {
		var opErr error
		rate, opErr = g.fetchOnce(ctx)
		return opErr
	}
	notify := func(err error, wait time.Duration) {
		g.logger.Warn("retry price request", zap.Duration("wait", wait), zap.Error(err))
	}

	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(g.cfg.MaxAttempts-1)), ctx)
	if err = backoff.RetryNotify(op, retry, notify); err != nil {
		return 0, fmt.Errorf("fetch %s/%s price: %w", g.cfg.CoinID, g.cfg.VsCurrency, err)
	}
	return rate, nil
}

func (g *CoinGecko) fetchOnce(ctx context.Context) (float64, error) {
	g.limiter.Take()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.priceURL(), nil)
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, backoff.Permanent(err)
		}
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		statusErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return 0, statusErr
		}
		return 0, backoff.Permanent(statusErr)
	}

	var prices map[string]map[string]float64
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&prices); err != nil {
		return 0, backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	price, ok := prices[g.cfg.CoinID][g.cfg.VsCurrency]
	if !ok {
		return 0, backoff.Permanent(fmt.Errorf("%w: %s/%s", ErrRateMissing, g.cfg.CoinID, g.cfg.VsCurrency))
	}
	return price, nil
}

func (g *CoinGecko) priceURL() string {
	q := url.Values{}
	q.Set("ids", g.cfg.CoinID)
	q.Set("vs_currencies", g.cfg.VsCurrency)
	return g.cfg.BaseURL + "/api/v3/simple/price?" + q.Encode()
}
