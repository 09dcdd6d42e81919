package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type LeadHandler struct {
	leadService *service.LeadService
	logger      *zap.Logger
}

func NewLeadHandler(leadService *service.LeadService, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		logger:      logger,
	}
}

// List godoc
// @Summary List leads
// @Description Leads ordered newest first. An offset past the end returns an empty array.
// @Tags Leads
// @Produce json
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} domain.LeadDTO
// @Failure 500 {object} domain.APIError
// @Router /leads [get]
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	leads, err := h.leadService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "fetch leads")
		return
	}
	respondJSON(w, http.StatusOK, leads)
}

// Stats godoc
// @Summary Lead pipeline statistics
// @Description Count and summed estimated value per stage. Stages without leads are omitted.
// @Tags Leads
// @Produce json
// @Success 200 {array} domain.LeadStageStatDTO
// @Failure 500 {object} domain.APIError
// @Router /leads/stats [get]
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.leadService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "fetch lead stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ListByStage godoc
// @Summary List leads in a stage
// @Tags Leads
// @Produce json
// @Param stage path string true "Stage" Enums(generation, cold, costing, proposal, negotiations, confirmed, rejected)
// @Success 200 {array} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Router /leads/by-stage/{stage} [get]
func (h *LeadHandler) ListByStage(w http.ResponseWriter, r *http.Request) {
	stage := domain.LeadStage(chi.URLParam(r, "stage"))
	leads, err := h.leadService.ListByStage(r.Context(), stage)
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "fetch leads")
		return
	}
	respondJSON(w, http.StatusOK, leads)
}

// GetByID godoc
// @Summary Get lead
// @Tags Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /leads/{id} [get]
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "lead")
	if !ok {
		return
	}
	lead, err := h.leadService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "fetch lead")
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// Create godoc
// @Summary Create lead
// @Description Creates a lead and records a "created" activity.
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body domain.CreateLeadRequest true "Lead data"
// @Success 201 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads [post]
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	lead, err := h.leadService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "create lead")
		return
	}
	respondJSON(w, http.StatusCreated, lead)
}

// Update godoc
// @Summary Update lead
// @Description Partial update. A stage change records a "stage_changed" activity.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body domain.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} domain.LeadDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads/{id} [put]
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "lead")
	if !ok {
		return
	}
	var req domain.UpdateLeadRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	lead, err := h.leadService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "update lead")
		return
	}
	respondJSON(w, http.StatusOK, lead)
}

// Convert godoc
// @Summary Convert lead to project
// @Description Creates a project from a confirmed lead. The body is optional.
// @Tags Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body domain.ConvertLeadRequest false "Project overrides"
// @Success 201 {object} domain.ProjectDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /leads/{id}/convert [post]
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "lead")
	if !ok {
		return
	}
	var req domain.ConvertLeadRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	project, err := h.leadService.Convert(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Lead", "convert lead")
		return
	}
	respondJSON(w, http.StatusCreated, project)
}
