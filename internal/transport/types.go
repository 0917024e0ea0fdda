package transport

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-charts/internal/charts"
	"github.com/goodnatureofminers/blockinsight7000-charts/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChartService interface {
		Chart(ctx context.Context, req charts.Request) (model.Payload, error)
		Categories() map[model.Category]string
	}
	RateReader interface {
		Read(ctx context.Context) float64
	}
	HealthChecker interface {
		Ping(ctx context.Context) error
	}
)
