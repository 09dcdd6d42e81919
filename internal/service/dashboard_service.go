package service

import (
	"context"
	"fmt"

	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
)

type DashboardService struct {
	projectRepo *repository.ProjectRepository
	leadRepo    *repository.LeadRepository
	cache       cache.StatsCache
	logger      *zap.Logger
}

func NewDashboardService(
	projectRepo *repository.ProjectRepository,
	leadRepo *repository.LeadRepository,
	statsCache cache.StatsCache,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		projectRepo: projectRepo,
		leadRepo:    leadRepo,
		cache:       statsCache,
		logger:      logger,
	}
}

// Stats returns portfolio size, installed capacity and the open pipeline.
// Active leads exclude the confirmed and rejected stages.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStatsDTO, error) {
	return cachedStats(ctx, s.cache, s.logger, cache.KeyDashboardStats, func(ctx context.Context) (*domain.DashboardStatsDTO, error) {
		projects, err := s.projectRepo.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get project stats: %w", err)
		}
		activeLeads, pipelineValue, err := s.leadRepo.PipelineTotals(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get pipeline totals: %w", err)
		}
		return &domain.DashboardStatsDTO{
			TotalProjects:    projects.TotalProjects,
			MegawattCapacity: mapper.Money(projects.TotalCapacity),
			ActiveLeads:      activeLeads,
			PipelineValue:    mapper.Money(pipelineValue),
		}, nil
	})
}
