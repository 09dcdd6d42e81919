package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uint) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByLeadID returns the project promoted from a lead
func (r *ProjectRepository) GetByLeadID(ctx context.Context, leadID uint) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).Where("lead_id = ?", leadID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *ProjectRepository) List(ctx context.Context, page Page) ([]domain.Project, error) {
	projects := []domain.Project{}
	err := page.apply(r.db.WithContext(ctx).Order(recentFirst)).Find(&projects).Error
	return projects, err
}

// ProjectStats summarises the project portfolio
type ProjectStats struct {
	TotalProjects  int64
	TotalCapacity  decimal.Decimal
	ActiveProjects int64
}

func (r *ProjectRepository) Stats(ctx context.Context) (*ProjectStats, error) {
	var stats ProjectStats
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Select(`COUNT(*) as total_projects,
			COALESCE(SUM(capacity), 0) as total_capacity,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) as active_projects`,
			domain.ActiveProjectStatuses).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.TotalCapacity = stats.TotalCapacity.Round(2)
	return &stats, nil
}
