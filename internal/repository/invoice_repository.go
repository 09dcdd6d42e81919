package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) WithTx(tx *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: tx}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id uint) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invoice).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// NumberExists reports whether an invoice already carries number
func (r *InvoiceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("invoice_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

func (r *InvoiceRepository) List(ctx context.Context, page Page) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	err := page.apply(r.db.WithContext(ctx).Order(recentFirst)).Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID uint) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order(recentFirst).
		Find(&invoices).Error
	return invoices, err
}

// ListSentPastDue returns sent invoices whose due date is before now
func (r *InvoiceRepository) ListSentPastDue(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	invoices := []domain.Invoice{}
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", domain.InvoiceStatusSent, now).
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// FinanceStats summarises client invoicing. Purchase invoices are excluded.
type FinanceStats struct {
	TotalRevenue decimal.Decimal
	Outstanding  decimal.Decimal
	Collected    decimal.Decimal
	OverdueCount int64
}

func (r *InvoiceRepository) Stats(ctx context.Context) (*FinanceStats, error) {
	var stats FinanceStats
	err := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Select(`COALESCE(SUM(total_amount), 0) as total_revenue,
			COALESCE(SUM(CASE WHEN status IN ? THEN total_amount ELSE 0 END), 0) as outstanding,
			COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) as collected,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) as overdue_count`,
			[]domain.InvoiceStatus{domain.InvoiceStatusSent, domain.InvoiceStatusOverdue},
			domain.InvoiceStatusPaid,
			domain.InvoiceStatusOverdue).
		Where("type = ?", domain.InvoiceTypeClient).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = stats.TotalRevenue.Round(2)
	stats.Outstanding = stats.Outstanding.Round(2)
	stats.Collected = stats.Collected.Round(2)
	return &stats, nil
}
