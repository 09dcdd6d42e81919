package repository

import (
	"context"

	"github.com/solarepc/epc-api/internal/domain"
	"gorm.io/gorm"
)

type VendorRepository struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) Create(ctx context.Context, vendor *domain.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

func (r *VendorRepository) GetByID(ctx context.Context, id uint) (*domain.Vendor, error) {
	var vendor domain.Vendor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&vendor).Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepository) Update(ctx context.Context, vendor *domain.Vendor) error {
	return r.db.WithContext(ctx).Save(vendor).Error
}

// ListActive returns active vendors ordered by name
func (r *VendorRepository) ListActive(ctx context.Context, page Page) ([]domain.Vendor, error) {
	vendors := []domain.Vendor{}
	err := page.apply(r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC, id ASC")).
		Find(&vendors).Error
	return vendors, err
}
