package handler

import (
	"github.com/gin-gonic/gin"
	appreport "github.com/school/backend/internal/application/report"
)

// DashboardHandler serves the landing page figures
type DashboardHandler struct {
	BaseHandler
	dashboard *appreport.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(base BaseHandler, dashboard *appreport.DashboardService) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, dashboard: dashboard}
}

// Stats godoc
// @ID           dashboardStats
// @Summary      School-wide counts, today's attendance, dues and recent activity
// @Description  Figures that cannot be computed are reported as zero
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} APIResponse[report.Dashboard]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	h.Success(c, h.dashboard.Stats(c.Request.Context()))
}
