package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProjectService struct {
	db          *gorm.DB
	projectRepo *repository.ProjectRepository
	leadRepo    *repository.LeadRepository
	activities  *ActivityService
	cache       cache.StatsCache
	logger      *zap.Logger
}

func NewProjectService(
	db *gorm.DB,
	projectRepo *repository.ProjectRepository,
	leadRepo *repository.LeadRepository,
	activities *ActivityService,
	statsCache cache.StatsCache,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		db:          db,
		projectRepo: projectRepo,
		leadRepo:    leadRepo,
		activities:  activities,
		cache:       statsCache,
		logger:      logger,
	}
}

func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	project := &domain.Project{
		LeadID:                 req.LeadID,
		Name:                   req.Name,
		Client:                 req.Client,
		Capacity:               req.Capacity.Round(2),
		ContractValue:          req.ContractValue.Round(2),
		ProjectType:            req.ProjectType,
		Status:                 req.Status,
		StartDate:              utcPtr(req.StartDate),
		ExpectedCompletionDate: utcPtr(req.ExpectedCompletionDate),
		Progress:               req.Progress,
		ProjectManager:         req.ProjectManager,
	}
	if project.ProjectType == "" {
		project.ProjectType = domain.ProjectTypeRooftop
	}
	if project.Status == "" {
		project.Status = domain.ProjectStatusPlanning
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if project.LeadID != nil {
			if _, err := s.leadRepo.WithTx(tx).GetByID(ctx, *project.LeadID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: lead %d does not exist", ErrInvalidInput, *project.LeadID)
				}
				return fmt.Errorf("failed to get lead: %w", err)
			}
		}

		if err := s.projectRepo.WithTx(tx).Create(ctx, project); err != nil {
			return writeError(err, "create project")
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityProject,
			EntityID:    project.ID,
			Action:      domain.ActionCreated,
			Description: fmt.Sprintf("Project created: %s", project.Name),
			PerformedBy: auth.PerformedBy(ctx, req.ProjectManager),
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyProjectStats, cache.KeyDashboardStats)

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) GetByID(ctx context.Context, id uint) (*domain.ProjectDTO, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityProject, id)
	}
	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, req *domain.UpdateProjectRequest) (*domain.ProjectDTO, error) {
	var project *domain.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectRepo := s.projectRepo.WithTx(tx)

		var err error
		project, err = projectRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, domain.EntityProject, id)
		}
		previousManager := project.ProjectManager
		fromStatus := project.Status

		applyProjectUpdate(project, req)

		if err := projectRepo.Update(ctx, project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		activity := &domain.Activity{
			EntityType:  domain.EntityProject,
			EntityID:    project.ID,
			Action:      domain.ActionUpdated,
			Description: fmt.Sprintf("Project updated: %s", project.Name),
			PerformedBy: auth.PerformedBy(ctx, req.ProjectManager, previousManager),
		}
		if project.Status != fromStatus {
			activity.Action = domain.ActionStatusChanged
			activity.Description = fmt.Sprintf("Project %s moved from %s to %s", project.Name, fromStatus, project.Status)
			activity.Metadata = domain.JSONMap{"from": string(fromStatus), "to": string(project.Status)}
		}
		return s.activities.Record(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyProjectStats, cache.KeyDashboardStats)

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func applyProjectUpdate(project *domain.Project, req *domain.UpdateProjectRequest) {
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.Capacity != nil {
		project.Capacity = req.Capacity.Round(2)
	}
	if req.ContractValue != nil {
		project.ContractValue = req.ContractValue.Round(2)
	}
	if req.ProjectType != nil {
		project.ProjectType = *req.ProjectType
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = utcPtr(req.StartDate)
	}
	if req.ExpectedCompletionDate != nil {
		project.ExpectedCompletionDate = utcPtr(req.ExpectedCompletionDate)
	}
	if req.ActualCompletionDate != nil {
		project.ActualCompletionDate = utcPtr(req.ActualCompletionDate)
	}
	if req.Progress != nil {
		project.Progress = *req.Progress
	}
	if req.ProjectManager != nil {
		project.ProjectManager = req.ProjectManager
	}
}

func (s *ProjectService) List(ctx context.Context, limit, offset int) ([]domain.ProjectDTO, error) {
	projects, err := s.projectRepo.List(ctx, repository.NewPage(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return mapper.ToProjectDTOs(projects), nil
}

func (s *ProjectService) Stats(ctx context.Context) (*domain.ProjectStatsDTO, error) {
	return cachedStats(ctx, s.cache, s.logger, cache.KeyProjectStats, func(ctx context.Context) (*domain.ProjectStatsDTO, error) {
		stats, err := s.projectRepo.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get project stats: %w", err)
		}
		return &domain.ProjectStatsDTO{
			TotalProjects:  stats.TotalProjects,
			TotalCapacity:  mapper.Money(stats.TotalCapacity),
			ActiveProjects: stats.ActiveProjects,
		}, nil
	})
}
