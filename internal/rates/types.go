package rates

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Provider interface {
		FetchRate(ctx context.Context) (float64, error)
	}
	CacheMetrics interface {
		ObserveRate(rate float64)
	}
	FetchMetrics interface {
		ObserveFetch(err error, started time.Time)
	}
)
