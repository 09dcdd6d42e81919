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

type InvoiceService struct {
	db          *gorm.DB
	invoiceRepo *repository.InvoiceRepository
	numbers     *NumberSequenceService
	activities  *ActivityService
	cache       cache.StatsCache
	logger      *zap.Logger
	now         func() time.Time
}

func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo *repository.InvoiceRepository,
	numbers *NumberSequenceService,
	activities *ActivityService,
	statsCache cache.StatsCache,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		db:          db,
		invoiceRepo: invoiceRepo,
		numbers:     numbers,
		activities:  activities,
		cache:       statsCache,
		logger:      logger,
		now:         time.Now,
	}
}

func toInvoiceItems(reqs []domain.InvoiceItemRequest) domain.InvoiceItems {
	items := make(domain.InvoiceItems, len(reqs))
	for i, r := range reqs {
		items[i] = domain.InvoiceItem{Description: r.Description, Quantity: r.Quantity, Rate: r.Rate.Round(2)}
	}
	return items
}

// Create stores an invoice with server computed amount and total
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	now := s.now().UTC()
	items := toInvoiceItems(req.Items)
	amount, total := domain.InvoiceTotals(items, req.TaxAmount)

	invoice := &domain.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		ProjectID:     req.ProjectID,
		Type:          req.Type,
		Amount:        amount,
		TaxAmount:     req.TaxAmount.Round(2),
		TotalAmount:   total,
		Status:        req.Status,
		IssueDate:     now,
		DueDate:       req.DueDate.UTC(),
		ClientEmail:   req.ClientEmail,
		Description:   req.Description,
		Items:         items,
		CreatedBy:     req.CreatedBy,
	}
	if req.IssueDate != nil {
		invoice.IssueDate = req.IssueDate.UTC()
	}
	if invoice.Status == "" {
		invoice.Status = domain.InvoiceStatusDraft
	}
	if invoice.Status == domain.InvoiceStatusPaid {
		invoice.PaidDate = &now
	}
	if invoice.CreatedBy == nil {
		invoice.CreatedBy = auth.UserIDPtr(ctx)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if invoice.InvoiceNumber == "" {
			number, err := s.numbers.Next(ctx, tx, InvoicePrefix, now, s.invoiceRepo.WithTx(tx).NumberExists)
			if err != nil {
				return err
			}
			invoice.InvoiceNumber = number
		}

		if err := s.invoiceRepo.WithTx(tx).Create(ctx, invoice); err != nil {
			return writeError(err, "create invoice")
		}
		return s.activities.Record(ctx, tx, &domain.Activity{
			EntityType:  domain.EntityInvoice,
			EntityID:    invoice.ID,
			Action:      domain.ActionCreated,
			Description: fmt.Sprintf("Invoice %s created", invoice.InvoiceNumber),
			Metadata:    domain.JSONMap{"totalAmount": mapper.Money(invoice.TotalAmount)},
			PerformedBy: auth.PerformedBy(ctx, invoice.CreatedBy),
		})
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyInvoiceStats)

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id uint) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, domain.EntityInvoice, id)
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// Update applies a partial update. Moving to paid stamps paidDate unless one is given.
func (s *InvoiceService) Update(ctx context.Context, id uint, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	var invoice *domain.Invoice

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoiceRepo := s.invoiceRepo.WithTx(tx)

		var err error
		invoice, err = invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return lookupError(err, domain.EntityInvoice, id)
		}
		fromStatus := invoice.Status

		s.applyInvoiceUpdate(invoice, req)

		if err := invoiceRepo.Update(ctx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}

		activity := &domain.Activity{
			EntityType:  domain.EntityInvoice,
			EntityID:    invoice.ID,
			Action:      domain.ActionUpdated,
			Description: fmt.Sprintf("Invoice %s updated", invoice.InvoiceNumber),
			PerformedBy: auth.PerformedBy(ctx, invoice.CreatedBy),
		}
		if invoice.Status != fromStatus {
			activity.Action = domain.ActionStatusChanged
			activity.Description = fmt.Sprintf("Invoice %s moved from %s to %s", invoice.InvoiceNumber, fromStatus, invoice.Status)
			activity.Metadata = domain.JSONMap{"from": string(fromStatus), "to": string(invoice.Status)}
		}
		return s.activities.Record(ctx, tx, activity)
	})
	if err != nil {
		return nil, err
	}

	invalidateStats(ctx, s.cache, s.logger, cache.KeyInvoiceStats)

	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) applyInvoiceUpdate(invoice *domain.Invoice, req *domain.UpdateInvoiceRequest) {
	if req.ProjectID != nil {
		invoice.ProjectID = req.ProjectID
	}
	if req.Items != nil {
		invoice.Items = toInvoiceItems(*req.Items)
	}
	if req.TaxAmount != nil {
		invoice.TaxAmount = req.TaxAmount.Round(2)
	}
	if req.Items != nil || req.TaxAmount != nil {
		invoice.Amount, invoice.TotalAmount = domain.InvoiceTotals(invoice.Items, invoice.TaxAmount)
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}
	if req.IssueDate != nil {
		invoice.IssueDate = req.IssueDate.UTC()
	}
	if req.DueDate != nil {
		invoice.DueDate = req.DueDate.UTC()
	}
	if req.PaidDate != nil {
		invoice.PaidDate = utcPtr(req.PaidDate)
	}
	if req.ClientEmail != nil {
		invoice.ClientEmail = req.ClientEmail
	}
	if req.Description != nil {
		invoice.Description = req.Description
	}
	if invoice.Status == domain.InvoiceStatusPaid && invoice.PaidDate == nil {
		now := s.now().UTC()
		invoice.PaidDate = &now
	}
}

func (s *InvoiceService) List(ctx context.Context, limit, offset int) ([]domain.InvoiceDTO, error) {
	invoices, err := s.invoiceRepo.List(ctx, repository.NewPage(limit, offset))
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return mapper.ToInvoiceDTOs(invoices), nil
}

func (s *InvoiceService) ListByProject(ctx context.Context, projectID uint) ([]domain.InvoiceDTO, error) {
	invoices, err := s.invoiceRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return mapper.ToInvoiceDTOs(invoices), nil
}

// Stats summarises client invoices. Purchase invoices are excluded.
func (s *InvoiceService) Stats(ctx context.Context) (*domain.FinanceStatsDTO, error) {
	return cachedStats(ctx, s.cache, s.logger, cache.KeyInvoiceStats, func(ctx context.Context) (*domain.FinanceStatsDTO, error) {
		stats, err := s.invoiceRepo.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get finance stats: %w", err)
		}
		return &domain.FinanceStatsDTO{
			TotalRevenue: mapper.Money(stats.TotalRevenue),
			Outstanding:  mapper.Money(stats.Outstanding),
			Collected:    mapper.Money(stats.Collected),
			OverdueCount: stats.OverdueCount,
		}, nil
	})
}

// MarkOverdue moves every sent invoice whose due date has passed to overdue.
// Each invoice is updated with its activity in its own transaction.
func (s *InvoiceService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	invoices, err := s.invoiceRepo.ListSentPastDue(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list past due invoices: %w", err)
	}

	marked := 0
	for i := range invoices {
		invoice := &invoices[i]
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			invoice.Status = domain.InvoiceStatusOverdue
			if err := s.invoiceRepo.WithTx(tx).Update(ctx, invoice); err != nil {
				return fmt.Errorf("failed to update invoice: %w", err)
			}
			return s.activities.Record(ctx, tx, &domain.Activity{
				EntityType:  domain.EntityInvoice,
				EntityID:    invoice.ID,
				Action:      domain.ActionStatusChanged,
				Description: fmt.Sprintf("Invoice %s marked overdue", invoice.InvoiceNumber),
				Metadata:    domain.JSONMap{"from": string(domain.InvoiceStatusSent), "to": string(domain.InvoiceStatusOverdue)},
				PerformedBy: auth.PerformedBy(ctx, invoice.CreatedBy),
			})
		})
		if err != nil {
			s.logger.Error("failed to mark invoice overdue",
				zap.Uint("invoice_id", invoice.ID),
				zap.String("invoice_number", invoice.InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		marked++
	}

	if marked > 0 {
		invalidateStats(ctx, s.cache, s.logger, cache.KeyInvoiceStats, cache.KeyDashboardStats)
	}
	return marked, nil
}
