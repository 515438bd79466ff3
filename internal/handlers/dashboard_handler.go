package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/hospital-manager/internal/dto"
	"github.com/BruksfildServices01/hospital-manager/internal/httperr"
	"github.com/BruksfildServices01/hospital-manager/internal/httpresp"
)

type dashboardStatsGetter interface {
	Execute(ctx context.Context) (*dto.DashboardDTO, error)
}

type DashboardHandler struct {
	stats dashboardStatsGetter
}

func NewDashboardHandler(stats dashboardStatsGetter) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	out, err := h.stats.Execute(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, out)
}
