package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

func (r *PurchaseOrderRepository) WithTx(tx *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: tx}
}

func (r *PurchaseOrderRepository) Create(ctx context.Context, po *domain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

func (r *PurchaseOrderRepository) GetByID(ctx context.Context, id uint) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// NumberExists reports whether a purchase order already carries number
func (r *PurchaseOrderRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PurchaseOrder{}).Where("po_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *PurchaseOrderRepository) Update(ctx context.Context, po *domain.PurchaseOrder) error {
	return r.db.WithContext(ctx).Save(po).Error
}

func (r *PurchaseOrderRepository) List(ctx context.Context, page Page) ([]domain.PurchaseOrder, error) {
	orders := []domain.PurchaseOrder{}
	err := page.apply(r.db.WithContext(ctx).Order(recentFirst)).Find(&orders).Error
	return orders, err
}

func (r *PurchaseOrderRepository) ListByProject(ctx context.Context, projectID uint) ([]domain.PurchaseOrder, error) {
	orders := []domain.PurchaseOrder{}
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order(recentFirst).
		Find(&orders).Error
	return orders, err
}

// PurchaseStats summarises procurement
type PurchaseStats struct {
	TotalPurchases decimal.Decimal
	PendingOrders  decimal.Decimal
	ActiveVendors  int64
}

func (r *PurchaseOrderRepository) Stats(ctx context.Context) (*PurchaseStats, error) {
	var stats PurchaseStats
	err := r.db.WithContext(ctx).
		Model(&domain.PurchaseOrder{}).
		Select(`COALESCE(SUM(total_amount), 0) as total_purchases,
			COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) as pending_orders,
			COUNT(DISTINCT vendor_id) as active_vendors`, domain.POStatusPending).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.TotalPurchases = stats.TotalPurchases.Round(2)
	stats.PendingOrders = stats.PendingOrders.Round(2)
	return &stats, nil
}
