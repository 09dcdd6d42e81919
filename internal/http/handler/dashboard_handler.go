package handler

import (
	"net/http"

	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// @Summary Get dashboard statistics
// @Description **Portfolio:**
// @Description - `totalProjects`: number of projects
// @Description - `megawattCapacity`: summed project capacity in MW
// @Description
// @Description **Pipeline:**
// @Description - `activeLeads`: leads not in a closed stage (confirmed, rejected)
// @Description - `pipelineValue`: summed estimated value of active leads
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStatsDTO
// @Failure 500 {object} domain.APIError
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Dashboard", "fetch dashboard stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
