// Package charts builds chart datasets from block windows and caches the results per category.
package charts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

// Request selects a chart and the block window it covers.
type Request struct {
	Category  string
	BlockDate string
	// UpperBound overrides the end of the window when non-zero.
	UpperBound int64
}

// Service resolves chart requests against a block source and a result cache.
type Service struct {
	blocks     BlockSource
	aggregator *Aggregator
	cache      *ResultCache
	clock      clock.Clock
	metrics    Metrics
	logger     *zap.Logger

	buildTimeout time.Duration

	group singleflight.Group
}

// NewService wires a chart Service.
func NewService(
	blocks BlockSource,
	aggregator *Aggregator,
	cache *ResultCache,
	c clock.Clock,
	metrics Metrics,
	logger *zap.Logger,
) (*Service, error) {
	if blocks == nil {
		return nil, errors.New("block source is required")
	}
	if aggregator == nil {
		return nil, errors.New("aggregator is required")
	}
	if cache == nil {
		return nil, errors.New("result cache is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		blocks:     blocks,
		aggregator: aggregator,
		cache:      cache,
		clock:      c,
		metrics:    metrics,
		logger:     logger.Named("charts"),

		buildTimeout: defaultBuildTimeout,
	}, nil
}

// Categories returns the display name of every supported chart keyed by category.
func (s *Service) Categories() map[model.Category]string {
	out := make(map[model.Category]string, len(model.Categories()))
	for _, c := range model.Categories() {
		out[c] = c.DisplayName()
	}
	return out
}

// Chart returns the payload for req, served from cache when a fresh payload for the
// same window exists. Validation failures are returned as *ValidationError.
func (s *Service) Chart(ctx context.Context, req Request) (model.Payload, error) {
	category, err := model.ParseCategory(req.Category)
	if err != nil {
		return model.Payload{}, &ValidationError{Err: err}
	}
	window, err := ResolveWindow(req.BlockDate, req.UpperBound, s.clock.Now())
	if err != nil {
		return model.Payload{}, err
	}

	if cached, ok := s.cache.Get(category); ok && cached.Window == window {
		s.metrics.ObserveCache(category, true)
		return cached, nil
	}
	s.metrics.ObserveCache(category, false)

	key := fmt.Sprintf("%s:%d:%d", category, window.Lower, window.Upper)
	// The build runs detached from the caller; each caller stops waiting on its own context.
	ch := s.group.DoChan(key, func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.buildTimeout)
		defer cancel()
		return s.build(buildCtx, category, window)
	})

	select {
	case <-ctx.Done():
		return model.Payload{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.Payload{}, res.Err
		}
		if res.Shared {
			s.logger.Debug("shared in-flight chart build", zap.String("category", string(category)))
		}
		return res.Val.(model.Payload), nil
	}
}

func (s *Service) build(ctx context.Context, category model.Category, window model.Window) (payload model.Payload, err error) {
	started := time.Now()
	var blockCount int
	defer func() {
		s.metrics.ObserveBuild(category, err, blockCount, started)
	}()

	logger := s.logger.With(
		zap.String("category", string(category)),
		zap.Int64("lower", window.Lower),
		zap.Int64("upper", window.Upper),
	)

	blocks, err := s.fetchBlocks(ctx, window)
	if err != nil {
		logger.Error("fetch blocks", zap.Error(err))
		return model.Payload{}, err
	}
	blockCount = len(blocks)

	payload, err = s.aggregator.Aggregate(ctx, category, blocks)
	if err != nil {
		logger.Error("aggregate chart", zap.Int("blocks", blockCount), zap.Error(err))
		return model.Payload{}, err
	}
	payload.Window = window

	s.cache.Set(category, payload)
	logger.Debug("chart built", zap.Int("blocks", blockCount), zap.Duration("took", time.Since(started)))
	return payload, nil
}

func (s *Service) fetchBlocks(ctx context.Context, window model.Window) ([]model.Block, error) {
	hashes, err := s.blocks.BlockHashesByTimestamp(ctx, window.Lower, window.Upper)
	if err != nil {
		return nil, &UpstreamError{Op: "fetch block hashes", Err: err}
	}

	blocks := make([]model.Block, 0, len(hashes))
	for _, hash := range hashes {
		b, err := s.blocks.BlockByHash(ctx, hash)
		if err != nil {
			return nil, &UpstreamError{Op: fmt.Sprintf("fetch block %s", hash), Err: err}
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
