package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/logger"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/metrics"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LeadService manages the sales pipeline
type LeadService struct {
	db          *gorm.DB
	leadRepo    *repository.LeadRepository
	projectRepo *repository.ProjectRepository
	activities  *ActivityService
	cache       cache.StatsCache
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewLeadService(
	db *gorm.DB,
	leadRepo *repository.LeadRepository,
	projectRepo *repository.ProjectRepository,
	activities *ActivityService,
	statsCache cache.StatsCache,
	m *metrics.Metrics,
	logger *zap.Logger,
) *LeadService {
	return &LeadService{
		db:          db,
		leadRepo:    leadRepo,
		projectRepo: projectRepo,
		activities:  activities,
		cache:       statsCache,
		metrics:     m,
		logger:      logger,
	}
}

func (s *LeadService) Create(ctx context.Context, req *domain.CreateLeadRequest) (*domain.LeadDTO, error) {
	lead := &domain.Lead{
		CompanyName:    req.CompanyName,
		ContactPerson:  req.ContactPerson,
		Email:          req.Email,
		Phone:          req.Phone,
		Capacity:       req.Capacity.Round(2),
		EstimatedValue: req.EstimatedValue.Round(2),
		Stage:          req.Stage,
		ProjectType:    req.ProjectType,
		Source:         req.Source,
		Notes:          req.Notes,
		AssignedTo:     req.AssignedTo,
	}
	if lead.Stage == "" {
		lead.Stage = domain.LeadStageGeneration
	}
	if lead.ProjectType == "" {
		lead.ProjectType = domain.ProjectTypeRooftop
	}
	if lead.Source == "" {
		lead.Source = domain.LeadSourceManual
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.leadRepo.WithTx(tx).Create(ctx, lead); err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityLead,
			EntityID:    lead.ID,
			Action:      domain.ActionCreated,
			Description: fmt.Sprintf("Lead created for %s", lead.CompanyName),
			PerformedBy: auth.PerformedBy(ctx, req.AssignedTo),
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyLeadStats, cache.KeyDashboardStats)

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

func (s *LeadService) GetByID(ctx context.Context, id uint) (*domain.LeadDTO, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityLead, id)
	}
	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

// Update applies a partial update. A stage change is recorded as a
// stage_changed activity; any stage may move to any other stage.
func (s *LeadService) Update(ctx context.Context, id uint, req *domain.UpdateLeadRequest) (*domain.LeadDTO, error) {
	var (
		lead      *domain.Lead
		fromStage domain.LeadStage
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leadRepo := s.leadRepo.WithTx(tx)

		var err error
		lead, err = leadRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, domain.EntityLead, id)
		}
		fromStage = lead.Stage
		previousAssignee := lead.AssignedTo

		applyLeadUpdate(lead, req)

		if err := leadRepo.Update(ctx, lead); err != nil {
			return fmt.Errorf("failed to update lead: %w", err)
		}

		if lead.Stage == fromStage {
			return nil
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityLead,
			EntityID:    lead.ID,
			Action:      domain.ActionStageChanged,
			Description: fmt.Sprintf("Lead moved from %s to %s", fromStage, lead.Stage),
			Metadata:    domain.JSONMap{"from": string(fromStage), "to": string(lead.Stage)},
			PerformedBy: auth.PerformedBy(ctx, req.AssignedTo, previousAssignee),
		})
	})
	if err != nil {
		return nil, err
	}

	if lead.Stage != fromStage {
		s.metrics.LeadStageChanged(string(fromStage), string(lead.Stage))
		logger.WithEntity(s.logger, domain.EntityLead, lead.ID).Info("lead stage changed",
			zap.String("stage_from", string(fromStage)),
			zap.String("stage_to", string(lead.Stage)),
			zap.Bool("closed", lead.Stage.IsClosed()),
		)
	}
	invalidateStats(ctx, s.cache, s.logger, cache.KeyLeadStats, cache.KeyDashboardStats)

	dto := mapper.ToLeadDTO(lead)
	return &dto, nil
}

func applyLeadUpdate(lead *domain.Lead, req *domain.UpdateLeadRequest) {
	if req.CompanyName != nil {
		lead.CompanyName = *req.CompanyName
	}
	if req.ContactPerson != nil {
		lead.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		lead.Email = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = req.Phone
	}
	if req.Capacity != nil {
		lead.Capacity = req.Capacity.Round(2)
	}
	if req.EstimatedValue != nil {
		lead.EstimatedValue = req.EstimatedValue.Round(2)
	}
	if req.Stage != nil {
		lead.Stage = *req.Stage
	}
	if req.ProjectType != nil {
		lead.ProjectType = *req.ProjectType
	}
	if req.Source != nil {
		lead.Source = *req.Source
	}
	if req.Notes != nil {
		lead.Notes = req.Notes
	}
	if req.AssignedTo != nil {
		lead.AssignedTo = req.AssignedTo
	}
}

// Convert promotes a confirmed lead to a project. Each lead converts at most once.
func (s *LeadService) Convert(ctx context.Context, id uint, req *domain.ConvertLeadRequest) (*domain.ProjectDTO, error) {
	var project *domain.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lead, err := s.leadRepo.WithTx(tx).GetByID(ctx, id)
		if err != nil {
			return lookupError(err, domain.EntityLead, id)
		}
		if lead.Stage != domain.LeadStageConfirmed {
			return ErrLeadNotConfirmed
		}

		projectRepo := s.projectRepo.WithTx(tx)
		if _, err := projectRepo.GetByLeadID(ctx, lead.ID); err == nil {
			return ErrLeadAlreadyConverted
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing project: %w", err)
		}

		name := lead.CompanyName + " Project"
		if req != nil && req.Name != nil {
			name = *req.Name
		}
		leadID := lead.ID
		project = &domain.Project{
			LeadID:        &leadID,
			Name:          name,
			Client:        lead.CompanyName,
			Capacity:      lead.Capacity,
			ContractValue: lead.EstimatedValue,
			ProjectType:   lead.ProjectType,
			Status:        domain.ProjectStatusPlanning,
		}
		if req != nil {
			project.StartDate = utcPtr(req.StartDate)
			project.ProjectManager = req.ProjectManager
		}

		if err := projectRepo.Create(ctx, project); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrLeadAlreadyConverted
			}
			return fmt.Errorf("failed to create project: %w", err)
		}

		performedBy := auth.PerformedBy(ctx, project.ProjectManager, lead.AssignedTo)
		if err := s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityLead,
			EntityID:    lead.ID,
			Action:      domain.ActionConverted,
			Description: fmt.Sprintf("Lead converted to project %s", project.Name),
			Metadata:    domain.JSONMap{"projectId": project.ID},
			PerformedBy: performedBy,
		}); err != nil {
			return err
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityProject,
			EntityID:    project.ID,
			Action:      domain.ActionCreated,
			Description: fmt.Sprintf("Project created: %s", project.Name),
			Metadata:    domain.JSONMap{"leadId": lead.ID},
			PerformedBy: performedBy,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.WithEntity(s.logger, domain.EntityLead, id).Info("lead converted to project",
		zap.Uint("project_id", project.ID),
	)
	invalidateStats(ctx, s.cache, s.logger, cache.KeyLeadStats, cache.KeyDashboardStats, cache.KeyProjectStats)

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

func (s *LeadService) List(ctx context.Context, limit, offset int) ([]domain.LeadDTO, error) {
	leads, err := s.leadRepo.List(ctx, repository.NewPage(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	return mapper.ToLeadDTOs(leads), nil
}

func (s *LeadService) ListByStage(ctx context.Context, stage domain.LeadStage) ([]domain.LeadDTO, error) {
	if !stage.IsValid() {
		return nil, fmt.Errorf("%w: unknown lead stage %q", ErrInvalidInput, stage)
	}
	leads, err := s.leadRepo.ListByStage(ctx, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads by stage: %w", err)
	}
	return mapper.ToLeadDTOs(leads), nil
}

// Stats returns lead count and summed estimated value per stage.
// Stages without leads are omitted.
func (s *LeadService) Stats(ctx context.Context) ([]domain.LeadStageStatDTO, error) {
	return cachedStats(ctx, s.cache, s.logger, cache.KeyLeadStats, func(ctx context.Context) ([]domain.LeadStageStatDTO, error) {
		rows, err := s.leadRepo.StageStats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get lead stats: %w", err)
		}
		return toStageStatDTOs(rows), nil
	})
}

func toStageStatDTOs(rows []repository.LeadStageStat) []domain.LeadStageStatDTO {
	byStage := make(map[domain.LeadStage]repository.LeadStageStat, len(rows))
	for _, row := range rows {
		byStage[row.Stage] = row
	}

	dtos := make([]domain.LeadStageStatDTO, 0, len(rows))
	for _, stage := range domain.LeadStages {
		row, ok := byStage[stage]
		if !ok {
			continue
		}
		dtos = append(dtos, domain.LeadStageStatDTO{
			Stage: stage,
			Count: row.Count,
			Value: mapper.Money(row.Value),
		})
		delete(byStage, stage)
	}
	// Rows with a stage outside the known set still count toward the totals
	for _, row := range rows {
		if _, ok := byStage[row.Stage]; ok {
			dtos = append(dtos, domain.LeadStageStatDTO{Stage: row.Stage, Count: row.Count, Value: mapper.Money(row.Value)})
		}
	}
	return dtos
}

// PipelineTotals exposes open pipeline count and value for the dashboard and warehouse export
func (s *LeadService) PipelineTotals(ctx context.Context) (int64, decimal.Decimal, error) {
	return s.leadRepo.PipelineTotals(ctx)
}
