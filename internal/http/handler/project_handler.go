package handler

import (
	"net/http"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	projectService       *service.ProjectService
	purchaseOrderService *service.PurchaseOrderService
	invoiceService       *service.InvoiceService
	taskService          *service.TaskService
	logger               *zap.Logger
}

func NewProjectHandler(
	projectService *service.ProjectService,
	purchaseOrderService *service.PurchaseOrderService,
	invoiceService *service.InvoiceService,
	taskService *service.TaskService,
	logger *zap.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:       projectService,
		purchaseOrderService: purchaseOrderService,
		invoiceService:       invoiceService,
		taskService:          taskService,
		logger:               logger,
	}
}

// List godoc
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} domain.ProjectDTO
// @Failure 500 {object} domain.APIError
// @Router /projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	projects, err := h.projectService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "fetch projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// Stats godoc
// @Summary Project statistics
// @Tags Projects
// @Produce json
// @Success 200 {object} domain.ProjectStatsDTO
// @Router /projects/stats [get]
func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.projectService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "fetch project stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}
	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "fetch project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Create godoc
// @Summary Create project
// @Description A leadId must reference an existing lead without a project.
// @Tags Projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project data"
// @Success 201 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "create project")
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

// Update godoc
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param request body domain.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}
	var req domain.UpdateProjectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	project, err := h.projectService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "update project")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// ListPurchaseOrders godoc
// @Summary Purchase orders of a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {array} domain.PurchaseOrderDTO
// @Router /projects/{id}/purchase-orders [get]
func (h *ProjectHandler) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}
	orders, err := h.purchaseOrderService.ListByProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "fetch purchase orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// ListInvoices godoc
// @Summary Invoices of a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {array} domain.InvoiceDTO
// @Router /projects/{id}/invoices [get]
func (h *ProjectHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}
	invoices, err := h.invoiceService.ListByProject(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "fetch invoices")
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// ListTasks godoc
// @Summary Tasks of a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} domain.TaskDTO
// @Router /projects/{id}/tasks [get]
func (h *ProjectHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "project")
	if !ok {
		return
	}
	limit, offset := pageParams(r)
	tasks, err := h.taskService.List(r.Context(), &id, limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Project", "fetch tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}
