package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

// ActivityHandler serves the per-entity audit trail
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new ActivityHandler instance
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// ListByEntity godoc
// @Summary List activities for an entity
// @Description Newest first. Activities are append-only.
// @Tags Activities
// @Produce json
// @Param entityType path string true "lead, project, vendor, purchase_order, invoice or task"
// @Param entityId path int true "Entity ID"
// @Param limit query int false "Maximum rows (max 200)" default(20)
// @Success 200 {array} domain.ActivityDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /activities/{entityType}/{entityId} [get]
func (h *ActivityHandler) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, ok := parseID(w, r, "entityId", "entity")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.ListByEntity(r.Context(), chi.URLParam(r, "entityType"), entityID, limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "Activity", "fetch activities")
		return
	}
	respondJSON(w, http.StatusOK, activities)
}
