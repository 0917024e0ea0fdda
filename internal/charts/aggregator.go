package charts

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
	"github.com/goodnatureofminers/blockinsight7000-charts/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-charts/pkg/workerpool"
)

// Aggregator turns an ordered block sequence into a chart payload.
type Aggregator struct {
	txs           TransactionSource
	normalizer    PoolNameNormalizer
	lookupWorkers int
}

// NewAggregator creates an Aggregator. txs is only consulted for mining revenue.
func NewAggregator(txs TransactionSource, normalizer PoolNameNormalizer, lookupWorkers int) (*Aggregator, error) {
	if txs == nil {
		return nil, errors.New("transaction source is required")
	}
	if lookupWorkers <= 0 {
		lookupWorkers = defaultLookupWorker
	}
	return &Aggregator{
		txs:           txs,
		normalizer:    normalizer,
		lookupWorkers: lookupWorkers,
	}, nil
}

// Aggregate builds the payload for category. Blocks must be ordered by height.
func (a *Aggregator) Aggregate(ctx context.Context, category model.Category, blocks []model.Block) (model.Payload, error) {
	payload := model.Payload{Category: category, Name: category.DisplayName()}

	switch category {
	case model.BlockSize:
		payload.Series = a.blockSize(blocks)
	case model.BlockInterval:
		payload.Series = a.blockInterval(blocks)
	case model.Difficulty:
		payload.Series = a.difficulty(blocks)
	case model.MiningRevenue:
		series, err := a.miningRevenue(ctx, blocks)
		if err != nil {
			return model.Payload{}, err
		}
		payload.Series = series
	case model.PoolStat:
		payload.Breakdown = &model.Breakdown{Style: model.Pie, Slices: a.normalizer.Tally(blocks, true)}
	case model.MinedBlock:
		payload.Breakdown = &model.Breakdown{Style: model.Bar, Slices: a.normalizer.Tally(blocks, false)}
	default:
		return model.Payload{}, fmt.Errorf("aggregate: %w: %q", model.ErrUnknownCategory, category)
	}

	return payload, nil
}

func (a *Aggregator) blockSize(blocks []model.Block) *model.Series {
	points := make([]model.Point, 0, len(blocks))
	for _, b := range blocks {
		points = append(points, model.Point{Height: b.Height, Value: float64(b.Size)})
	}
	return &model.Series{Key: "size", Label: "Block size", Points: points}
}

func (a *Aggregator) blockInterval(blocks []model.Block) *model.Series {
	points := make([]model.Point, 0, max(len(blocks)-1, 0))
	for i := 1; i < len(blocks); i++ {
		points = append(points, model.Point{
			Height: blocks[i].Height,
			Value:  float64(blocks[i].Timestamp - blocks[i-1].Timestamp),
		})
	}
	return &model.Series{Key: "blockinterval", Label: "Block interval", Points: points}
}

func (a *Aggregator) difficulty(blocks []model.Block) *model.Series {
	points := make([]model.Point, 0, len(blocks))
	for _, b := range blocks {
		points = append(points, model.Point{Height: b.Height, Value: b.Difficulty})
	}
	return &model.Series{Key: "difficulty", Label: "Difficulty", Points: points}
}

func (a *Aggregator) miningRevenue(ctx context.Context, blocks []model.Block) (*model.Series, error) {
	points := make([]model.Point, 0, len(blocks))
	for _, b := range blocks {
		sats, err := a.blockRevenue(ctx, b)
		if err != nil {
			return nil, err
		}
		value := decimal.NewFromInt(sats).Shift(-coinDecimal).Round(coinDecimal)
		points = append(points, model.Point{Height: b.Height, Value: value.InexactFloat64()})
	}
	return &model.Series{Key: "revenue", Label: "Mining revenue", Points: points}, nil
}

func (a *Aggregator) blockRevenue(ctx context.Context, b model.Block) (int64, error) {
	subsidy, err := btcutil.NewAmount(b.Reward)
	if err != nil {
		return 0, fmt.Errorf("convert reward of block %d: %w", b.Height, err)
	}

	outputs, err := workerpool.Map(ctx, a.lookupWorkers, b.TxIDs, func(ctx context.Context, txid string) (int64, error) {
		tx, err := a.txs.DetailedTransaction(ctx, txid)
		if err != nil {
			return 0, &UpstreamError{Op: fmt.Sprintf("lookup transaction %s of block %d", txid, b.Height), Err: err}
		}
		return tx.OutputSatoshis, nil
	})
	if err != nil {
		return 0, err
	}

	total, err := safe.SumInt64(append(outputs, int64(subsidy))...)
	if err != nil {
		return 0, fmt.Errorf("sum revenue of block %d: %w", b.Height, err)
	}
	return total, nil
}
