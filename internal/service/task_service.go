package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	db         *gorm.DB
	taskRepo   *repository.TaskRepository
	activities *ActivityService
	logger     *zap.Logger
	now        func() time.Time
}

func NewTaskService(
	db *gorm.DB,
	taskRepo *repository.TaskRepository,
	activities *ActivityService,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		db:         db,
		taskRepo:   taskRepo,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.TaskDTO, error) {
	task := &domain.Task{
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		AssignedTo:   req.AssignedTo,
		StartDate:    utcPtr(req.StartDate),
		DueDate:      utcPtr(req.DueDate),
		Progress:     req.Progress,
		Dependencies: domain.IDList(req.Dependencies),
		CreatedBy:    req.CreatedBy,
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == domain.TaskStatusCompleted {
		now := s.now().UTC()
		task.CompletedDate = &now
	}
	if task.CreatedBy == nil {
		task.CreatedBy = auth.UserIDPtr(ctx)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Create(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityTask,
			EntityID:    task.ID,
			Action:      domain.ActionCreated,
			Description: fmt.Sprintf("Task created: %s", task.Title),
			PerformedBy: auth.PerformedBy(ctx, task.AssignedTo, task.CreatedBy),
		})
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uint) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityTask, id)
	}
	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// Update applies a partial update and records an updated activity. Completing
// a task stamps completedDate when the request does not carry one.
func (s *TaskService) Update(ctx context.Context, id uint, req *domain.UpdateTaskRequest) (*domain.TaskDTO, error) {
	var task *domain.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskRepo := s.taskRepo.WithTx(tx)

		var err error
		task, err = taskRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, domain.EntityTask, id)
		}
		previousAssignee := task.AssignedTo
		fromStatus := task.Status

		s.applyTaskUpdate(task, req)

		if err := taskRepo.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		var metadata domain.JSONMap
		if task.Status != fromStatus {
			metadata = domain.JSONMap{"from": string(fromStatus), "to": string(task.Status)}
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityTask,
			EntityID:    task.ID,
			Action:      domain.ActionUpdated,
			Description: fmt.Sprintf("Task updated: %s", task.Title),
			Metadata:    metadata,
			PerformedBy: auth.PerformedBy(ctx, req.AssignedTo, previousAssignee),
		})
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) applyTaskUpdate(task *domain.Task, req *domain.UpdateTaskRequest) {
	if req.ProjectID != nil {
		task.ProjectID = req.ProjectID
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		task.AssignedTo = req.AssignedTo
	}
	if req.StartDate != nil {
		task.StartDate = utcPtr(req.StartDate)
	}
	if req.DueDate != nil {
		task.DueDate = utcPtr(req.DueDate)
	}
	if req.CompletedDate != nil {
		task.CompletedDate = utcPtr(req.CompletedDate)
	}
	if req.Progress != nil {
		task.Progress = *req.Progress
	}
	if req.Dependencies != nil {
		task.Dependencies = domain.IDList(*req.Dependencies)
	}
	if task.Status == domain.TaskStatusCompleted && task.CompletedDate == nil {
		now := s.now().UTC()
		task.CompletedDate = &now
	}
}

// List returns tasks, restricted to one project when projectID is set
func (s *TaskService) List(ctx context.Context, projectID *uint, limit, offset int) ([]domain.TaskDTO, error) {
	tasks, err := s.taskRepo.List(ctx, projectID, repository.NewPage(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return mapper.ToTaskDTOs(tasks), nil
}

// Stats buckets tasks relative to the current UTC day. Not cached.
func (s *TaskService) Stats(ctx context.Context) (*domain.TaskStatsDTO, error) {
	stats, err := s.taskRepo.Stats(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to get task stats: %w", err)
	}
	return &domain.TaskStatsDTO{
		Overdue:    stats.Overdue,
		DueToday:   stats.DueToday,
		Completed:  stats.Completed,
		InProgress: stats.InProgress,
	}, nil
}
