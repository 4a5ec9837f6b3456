package handler

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/icearena/booking-server/internal/repository"
)

// metricsWindow caps how many daily rows the dashboard receives.
const metricsWindow = 30

// MetricsHandler serves the admin dashboard's operational figures.
type MetricsHandler struct {
	Metrics *repository.MetricRepo
	Log     *zap.SugaredLogger
}

func NewMetricsHandler(metrics *repository.MetricRepo, log *zap.SugaredLogger) *MetricsHandler {
	return &MetricsHandler{Metrics: metrics, Log: log}
}

// GetArenaMetrics returns the latest daily figures, newest first.
func (h *MetricsHandler) GetArenaMetrics(ctx context.Context, raw json.RawMessage) any {
	rows, err := h.Metrics.Latest(ctx, metricsWindow)
	if err != nil {
		h.Log.Errorw("load metrics failed", "error", err)
		return Fail("failed to load metrics")
	}
	return M{"Success": true, "Metrics": rows}
}
