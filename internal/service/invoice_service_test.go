package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceRequest(status domain.InvoiceStatus, due time.Time, items ...domain.InvoiceItemRequest) *domain.CreateInvoiceRequest {
	return &domain.CreateInvoiceRequest{
		Type:    domain.InvoiceTypeClient,
		Status:  status,
		DueDate: &due,
		Items:   items,
	}
}

func TestInvoiceService_Create(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(4)

	req := invoiceRequest(domain.InvoiceStatusDraft, time.Now().Add(30*24*time.Hour),
		domain.InvoiceItemRequest{Description: "Installation", Quantity: 3, Rate: decimal.RequireFromString("150.00")},
		domain.InvoiceItemRequest{Description: "Commissioning", Quantity: 1, Rate: decimal.RequireFromString("50.50")},
	)
	req.TaxAmount = decimal.RequireFromString("90.09")

	invoice, err := s.invoices.Create(ctx, req)
	require.NoError(t, err)

	assert.Contains(t, invoice.InvoiceNumber, "INV-")
	assert.Equal(t, "500.50", invoice.Amount)
	assert.Equal(t, "90.09", invoice.TaxAmount)
	assert.Equal(t, "590.59", invoice.TotalAmount)
	assert.Equal(t, "450.00", invoice.Items[0].Amount)
	assert.Nil(t, invoice.PaidDate)
	assert.NotEmpty(t, invoice.IssueDate)

	activities := activitiesFor(t, s.db, domain.EntityInvoice, invoice.ID)
	require.Len(t, activities, 1)
	assert.Equal(t, "Invoice "+invoice.InvoiceNumber+" created", activities[0].Description)
}

func TestInvoiceService_Update_PaidStampsPaidDate(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(4)

	invoice, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusSent, time.Now().Add(24*time.Hour)))
	require.NoError(t, err)

	paid := domain.InvoiceStatusPaid
	updated, err := s.invoices.Update(ctx, invoice.ID, &domain.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidDate)

	explicit := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	second, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusSent, time.Now().Add(24*time.Hour)))
	require.NoError(t, err)
	updated, err = s.invoices.Update(ctx, second.ID, &domain.UpdateInvoiceRequest{Status: &paid, PaidDate: &explicit})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T00:00:00.000000Z", *updated.PaidDate)

	activities := activitiesFor(t, s.db, domain.EntityInvoice, invoice.ID)
	require.Len(t, activities, 2)
	assert.Equal(t, domain.ActionStatusChanged, activities[1].Action)
}

func TestInvoiceService_Update_TaxRecomputesTotal(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	invoice, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusDraft, time.Now(),
		domain.InvoiceItemRequest{Description: "Design", Quantity: 1, Rate: decimal.NewFromInt(1000)}))
	require.NoError(t, err)

	tax := decimal.NewFromInt(180)
	updated, err := s.invoices.Update(ctx, invoice.ID, &domain.UpdateInvoiceRequest{TaxAmount: &tax})
	require.NoError(t, err)
	assert.Equal(t, "1000.00", updated.Amount)
	assert.Equal(t, "1180.00", updated.TotalAmount)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	now := time.Now().UTC()

	sentPastDue, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusSent, now.Add(-48*time.Hour)))
	require.NoError(t, err)
	sentFuture, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusSent, now.Add(48*time.Hour)))
	require.NoError(t, err)
	draftPastDue, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusDraft, now.Add(-48*time.Hour)))
	require.NoError(t, err)
	paidPastDue, err := s.invoices.Create(ctx, invoiceRequest(domain.InvoiceStatusPaid, now.Add(-48*time.Hour)))
	require.NoError(t, err)

	marked, err := s.invoices.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	expect := map[uint]domain.InvoiceStatus{
		sentPastDue.ID:  domain.InvoiceStatusOverdue,
		sentFuture.ID:   domain.InvoiceStatusSent,
		draftPastDue.ID: domain.InvoiceStatusDraft,
		paidPastDue.ID:  domain.InvoiceStatusPaid,
	}
	for id, status := range expect {
		got, err := s.invoices.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status, "invoice %d", id)
	}

	activities := activitiesFor(t, s.db, domain.EntityInvoice, sentPastDue.ID)
	require.Len(t, activities, 2)
	assert.Equal(t, "Invoice "+sentPastDue.InvoiceNumber+" marked overdue", activities[1].Description)
	assert.Contains(t, s.cache.invalidated, cache.KeyDashboardStats)

	marked, err = s.invoices.MarkOverdue(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, marked)
}

func TestInvoiceService_Stats(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	due := time.Now().Add(24 * time.Hour)
	item := domain.InvoiceItemRequest{Description: "x", Quantity: 1, Rate: decimal.NewFromInt(100)}

	for _, status := range []domain.InvoiceStatus{domain.InvoiceStatusSent, domain.InvoiceStatusOverdue, domain.InvoiceStatusPaid, domain.InvoiceStatusDraft} {
		_, err := s.invoices.Create(ctx, invoiceRequest(status, due, item))
		require.NoError(t, err)
	}
	purchase := invoiceRequest(domain.InvoiceStatusPaid, due, item)
	purchase.Type = domain.InvoiceTypePurchase
	_, err := s.invoices.Create(ctx, purchase)
	require.NoError(t, err)

	stats, err := s.invoices.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "400.00", stats.TotalRevenue)
	assert.Equal(t, "200.00", stats.Outstanding)
	assert.Equal(t, "100.00", stats.Collected)
	assert.Equal(t, int64(1), stats.OverdueCount)

	_, err = s.invoices.GetByID(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
