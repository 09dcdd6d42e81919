package service

import (
	"context"
	"fmt"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/logger"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
)

// VendorService manages suppliers. Vendors are deactivated rather than deleted.
type VendorService struct {
	vendorRepo *repository.VendorRepository
	logger     *zap.Logger
}

func NewVendorService(vendorRepo *repository.VendorRepository, logger *zap.Logger) *VendorService {
	return &VendorService{vendorRepo: vendorRepo, logger: logger}
}

func (s *VendorService) Create(ctx context.Context, req *domain.CreateVendorRequest) (*domain.VendorDTO, error) {
	vendor := &domain.Vendor{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		Category:      req.Category,
		Tier:          req.Tier,
		IsActive:      true,
	}
	if vendor.Tier == "" {
		vendor.Tier = domain.VendorTier3
	}

	if err := s.vendorRepo.Create(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}

	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

func (s *VendorService) GetByID(ctx context.Context, id uint) (*domain.VendorDTO, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityVendor, id)
	}
	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

func (s *VendorService) Update(ctx context.Context, id uint, req *domain.UpdateVendorRequest) (*domain.VendorDTO, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityVendor, id)
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.ContactPerson != nil {
		vendor.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Phone != nil {
		vendor.Phone = req.Phone
	}
	if req.Address != nil {
		vendor.Address = req.Address
	}
	if req.Category != nil {
		vendor.Category = *req.Category
	}
	if req.Tier != nil {
		vendor.Tier = *req.Tier
	}
	if req.IsActive != nil {
		vendor.IsActive = *req.IsActive
	}

	// Save writes zero values, so deactivation persists
	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}

	if req.IsActive != nil && !*req.IsActive {
		logger.WithEntity(s.logger, domain.EntityVendor, vendor.ID).Info("vendor deactivated")
	}

	dto := mapper.ToVendorDTO(vendor)
	return &dto, nil
}

// List returns active vendors ordered by name
func (s *VendorService) List(ctx context.Context, limit, offset int) ([]domain.VendorDTO, error) {
	vendors, err := s.vendorRepo.ListActive(ctx, repository.NewPage(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return mapper.ToVendorDTOs(vendors), nil
}
