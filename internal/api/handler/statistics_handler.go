package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/platform/internal/core/service"
)

type statisticsSource interface {
	Summary(ctx context.Context) (*service.Statistics, error)
}

type StatisticsHandler struct {
	stats statisticsSource
}

func NewStatisticsHandler(stats statisticsSource) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Summary returns platform-wide counters.
//
// @Summary      Platform statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.Statistics
// @Failure      403  {object}  api.ErrorResponse
// @Router       /api/v1/statistics [get]
func (h *StatisticsHandler) Summary(c echo.Context) error {
	stats, err := h.stats.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
