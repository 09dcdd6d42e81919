package service

import (
	"context"
	"fmt"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/metrics"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultActivityLimit is the number of activities returned when no limit is given
const DefaultActivityLimit = 20

// ActivityService writes and reads the audit trail
type ActivityService struct {
	repo    *repository.ActivityRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewActivityService(repo *repository.ActivityRepository, m *metrics.Metrics, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, metrics: m, logger: logger}
}

// Record appends an activity inside tx. The caller's entity write and the
// activity commit or roll back together.
func (s *ActivityService) Record(ctx context.Context, tx *gorm.DB, activity *domain.Activity) error {
	if err := s.repo.WithTx(tx).Create(ctx, activity); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", activity.EntityType, err)
	}
	s.metrics.ActivityRecorded(activity.EntityType, activity.Action)
	return nil
}

// ListByEntity returns the newest activities of one entity
func (s *ActivityService) ListByEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]domain.ActivityDTO, error) {
	if err := validEntityType(entityType); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > repository.MaxPageSize {
		limit = repository.MaxPageSize
	}

	activities, err := s.repo.ListByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return mapper.ToActivityDTOs(activities), nil
}
