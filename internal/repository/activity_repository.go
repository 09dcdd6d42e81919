package repository

import (
	"context"

	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

// ActivityRepository stores the audit trail. Activities are append-only, so
// there is deliberately no Update or Delete.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) WithTx(tx *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: tx}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListByEntity returns the most recent activities for one entity instance
func (r *ActivityRepository) ListByEntity(ctx context.Context, entityType string, entityID uint, limit int) ([]domain.Activity, error) {
	activities := []domain.Activity{}
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
