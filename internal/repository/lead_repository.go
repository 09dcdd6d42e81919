package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// WithTx returns a repository bound to an open transaction
func (r *LeadRepository) WithTx(tx *gorm.DB) *LeadRepository {
	return &LeadRepository{db: tx}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *LeadRepository) GetByID(ctx context.Context, id uint) (*domain.Lead, error) {
	var lead domain.Lead
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// Update persists every column and refreshes updated_at
func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	return r.db.WithContext(ctx).Save(lead).Error
}

func (r *LeadRepository) List(ctx context.Context, page Page) ([]domain.Lead, error) {
	leads := []domain.Lead{}
	err := page.apply(r.db.WithContext(ctx).Order(recentFirst)).Find(&leads).Error
	return leads, err
}

func (r *LeadRepository) ListByStage(ctx context.Context, stage domain.LeadStage) ([]domain.Lead, error) {
	leads := []domain.Lead{}
	err := r.db.WithContext(ctx).
		Where("stage = ?", stage).
		Order(recentFirst).
		Find(&leads).Error
	return leads, err
}

// LeadStageStat is the lead count and summed estimated value of one stage
type LeadStageStat struct {
	Stage domain.LeadStage
	Count int64
	Value decimal.Decimal
}

// StageStats groups leads by stage. Stages without leads are absent.
func (r *LeadRepository) StageStats(ctx context.Context) ([]LeadStageStat, error) {
	var rows []LeadStageStat
	err := r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Select("stage, COUNT(*) as count, COALESCE(SUM(estimated_value), 0) as value").
		Group("stage").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Value = rows[i].Value.Round(2)
	}
	return rows, nil
}

// PipelineTotals counts leads still in the open pipeline and sums their value
func (r *LeadRepository) PipelineTotals(ctx context.Context) (count int64, value decimal.Decimal, err error) {
	var row struct {
		Count int64
		Value decimal.Decimal
	}
	err = r.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Select("COUNT(*) as count, COALESCE(SUM(estimated_value), 0) as value").
		Where("stage NOT IN ?", domain.ClosedLeadStages).
		Scan(&row).Error
	return row.Count, row.Value.Round(2), err
}
