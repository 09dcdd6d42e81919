package service

import (
	"context"
	"fmt"
	"time"

	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PurchaseOrderService struct {
	db         *gorm.DB
	poRepo     *repository.PurchaseOrderRepository
	numbers    *NumberSequenceService
	activities *ActivityService
	cache      cache.StatsCache
	logger     *zap.Logger
}

func NewPurchaseOrderService(
	db *gorm.DB,
	poRepo *repository.PurchaseOrderRepository,
	numbers *NumberSequenceService,
	activities *ActivityService,
	statsCache cache.StatsCache,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		db:         db,
		poRepo:     poRepo,
		numbers:    numbers,
		activities: activities,
		cache:      statsCache,
		logger:     logger,
	}
}

func toPurchaseOrderItems(reqs []domain.PurchaseOrderItemRequest) domain.PurchaseOrderItems {
	items := make(domain.PurchaseOrderItems, len(reqs))
	for i, r := range reqs {
		items[i] = domain.PurchaseOrderItem{Name: r.Name, Quantity: r.Quantity, UnitPrice: r.UnitPrice.Round(2)}
	}
	return items
}

// Create stores a purchase order. Line totals and the order total are always
// computed server side. A number is generated when none is supplied.
func (s *PurchaseOrderService) Create(ctx context.Context, req *domain.CreatePurchaseOrderRequest) (*domain.PurchaseOrderDTO, error) {
	items := toPurchaseOrderItems(req.Items)
	po := &domain.PurchaseOrder{
		PONumber:             req.PONumber,
		ProjectID:            req.ProjectID,
		VendorID:             req.VendorID,
		Description:          req.Description,
		Items:                items,
		TotalAmount:          items.Recalculate(),
		Status:               req.Status,
		OrderDate:            utcPtr(req.OrderDate),
		ExpectedDeliveryDate: utcPtr(req.ExpectedDeliveryDate),
		CreatedBy:            req.CreatedBy,
	}
	if po.Status == "" {
		po.Status = domain.POStatusPending
	}
	if po.CreatedBy == nil {
		po.CreatedBy = auth.UserIDPtr(ctx)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if po.PONumber == "" {
			number, err := s.numbers.Next(ctx, tx, PurchaseOrderPrefix, time.Now(), s.poRepo.WithTx(tx).NumberExists)
			if err != nil {
				return err
			}
			po.PONumber = number
		}

		if err := s.poRepo.WithTx(tx).Create(ctx, po); err != nil {
			return writeError(err, "create purchase order")
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityPurchaseOrder,
			EntityID:    po.ID,
			Action:      domain.ActionCreated,
			Description: fmt.Sprintf("Purchase order %s created", po.PONumber),
			Metadata:    domain.JSONMap{"totalAmount": mapper.Money(po.TotalAmount)},
			PerformedBy: auth.PerformedBy(ctx, po.CreatedBy),
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyPurchaseOrderStats)

	dto := mapper.ToPurchaseOrderDTO(po)
	return &dto, nil
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id uint) (*domain.PurchaseOrderDTO, error) {
	po, err := s.poRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityPurchaseOrder, id)
	}
	dto := mapper.ToPurchaseOrderDTO(po)
	return &dto, nil
}

func (s *PurchaseOrderService) Update(ctx context.Context, id uint, req *domain.UpdatePurchaseOrderRequest) (*domain.PurchaseOrderDTO, error) {
	var po *domain.PurchaseOrder

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		poRepo := s.poRepo.WithTx(tx)

		var err error
		po, err = poRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, domain.EntityPurchaseOrder, id)
		}
		fromStatus := po.Status

		if req.ProjectID != nil {
			po.ProjectID = req.ProjectID
		}
		if req.VendorID != nil {
			po.VendorID = req.VendorID
		}
		if req.Description != nil {
			po.Description = req.Description
		}
		if req.Items != nil {
			po.Items = toPurchaseOrderItems(*req.Items)
			po.TotalAmount = po.Items.Recalculate()
		}
		if req.Status != nil {
			po.Status = *req.Status
		}
		if req.OrderDate != nil {
			po.OrderDate = utcPtr(req.OrderDate)
		}
		if req.ExpectedDeliveryDate != nil {
			po.ExpectedDeliveryDate = utcPtr(req.ExpectedDeliveryDate)
		}
		if req.ActualDeliveryDate != nil {
			po.ActualDeliveryDate = utcPtr(req.ActualDeliveryDate)
		}

		if err := poRepo.Update(ctx, po); err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}

		activity := &domain.Activity{
			EntityType:  domain.EntityPurchaseOrder,
			EntityID:    po.ID,
			Action:      domain.ActionUpdated,
			Description: fmt.Sprintf("Purchase order %s updated", po.PONumber),
			PerformedBy: auth.PerformedBy(ctx, po.CreatedBy),
		}
		if po.Status != fromStatus {
			activity.Action = domain.ActionStatusChanged
			activity.Description = fmt.Sprintf("Purchase order %s moved from %s to %s", po.PONumber, fromStatus, po.Status)
			activity.Metadata = domain.JSONMap{"from": string(fromStatus), "to": string(po.Status)}
		}
		return s.activities.Record(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyPurchaseOrderStats)

	dto := mapper.ToPurchaseOrderDTO(po)
	return &dto, nil
}

func (s *PurchaseOrderService) List(ctx context.Context, limit, offset int) ([]domain.PurchaseOrderDTO, error) {
	orders, err := s.poRepo.List(ctx, repository.NewPage(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return mapper.ToPurchaseOrderDTOs(orders), nil
}

func (s *PurchaseOrderService) ListByProject(ctx context.Context, projectID uint) ([]domain.PurchaseOrderDTO, error) {
	orders, err := s.poRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	return mapper.ToPurchaseOrderDTOs(orders), nil
}

func (s *PurchaseOrderService) Stats(ctx context.Context) (*domain.PurchaseStatsDTO, error) {
	return cachedStats(ctx, s.cache, s.logger, cache.KeyPurchaseOrderStats, func(ctx context.Context) (*domain.PurchaseStatsDTO, error) {
		stats, err := s.poRepo.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get purchase stats: %w", err)
		}
		return &domain.PurchaseStatsDTO{
			TotalPurchases: mapper.Money(stats.TotalPurchases),
			PendingOrders:  mapper.Money(stats.PendingOrders),
			ActiveVendors:  stats.ActiveVendors,
		}, nil
	})
}
