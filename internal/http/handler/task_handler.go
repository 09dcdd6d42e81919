package handler

import (
	"net/http"
	"strconv"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService *service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// List godoc
// @Summary List tasks
// @Tags Tasks
// @Produce json
// @Param projectId query int false "Only tasks of this project"
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Router /tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	var projectID *uint
	if raw := r.URL.Query().Get("projectId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid project ID")
			return
		}
		pid := uint(id)
		projectID = &pid
	}

	limit, offset := pageParams(r)
	tasks, err := h.taskService.List(r.Context(), projectID, limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Task", "fetch tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Stats godoc
// @Summary Task statistics
// @Description overdue counts open tasks due before today, dueToday open tasks due today (UTC)
// @Tags Tasks
// @Produce json
// @Success 200 {object} domain.TaskStatsDTO
// @Router /tasks/stats [get]
func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Task", "fetch task stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} domain.TaskDTO
// @Failure 404 {object} domain.APIError
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "task")
	if !ok {
		return
	}
	task, err := h.taskService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Task", "fetch task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// Create godoc
// @Summary Create task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param request body domain.CreateTaskRequest true "Task"
// @Success 201 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	task, err := h.taskService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Task", "create task")
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

// Update godoc
// @Summary Update task
// @Description Moving a task to completed stamps completedDate
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body domain.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} domain.TaskDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "task")
	if !ok {
		return
	}
	var req domain.UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	task, err := h.taskService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Task", "update task")
		return
	}
	respondJSON(w, http.StatusOK, task)
}
