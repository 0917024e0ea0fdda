package charts

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	BlockSource interface {
		BlockHashesByTimestamp(ctx context.Context, lower, upper int64) ([]string, error)
		BlockByHash(ctx context.Context, hash string) (model.Block, error)
	}
	TransactionSource interface {
		DetailedTransaction(ctx context.Context, txid string) (model.DetailedTransaction, error)
	}
	Metrics interface {
		ObserveBuild(category model.Category, err error, blocks int, started time.Time)
		ObserveCache(category model.Category, hit bool)
	}
)
