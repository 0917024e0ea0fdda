// Package transport exposes gRPC/HTTP handlers.
package transport

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ExplorerHandler implements ExplorerServiceServer.
type ExplorerHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer

	checks map[string]HealthChecker
	logger *zap.Logger
}

// NewExplorerHandler returns an ExplorerHandler that pings every named dependency on Health.
func NewExplorerHandler(checks map[string]HealthChecker, logger *zap.Logger) *ExplorerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExplorerHandler{checks: checks, logger: logger.Named("explorer")}
}

// Health reports server health.
func (h *ExplorerHandler) Health(ctx context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	if err := h.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: strings.Join(h.names(), ","),
	}, nil
}

// Ping pings every dependency and joins the failures.
func (h *ExplorerHandler) Ping(ctx context.Context) error {
	var errs []error
	for _, name := range h.names() {
		if err := h.checks[name].Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ping %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (h *ExplorerHandler) names() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
