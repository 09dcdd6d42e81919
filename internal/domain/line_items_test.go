package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineTotal(t *testing.T) {
	total := domain.LineTotal(3, decimal.RequireFromString("150.00"))
	assert.Equal(t, "450.00", total.StringFixed(2))

	assert.True(t, domain.LineTotal(0, decimal.NewFromInt(99)).IsZero())
	assert.Equal(t, "0.67", domain.LineTotal(2, decimal.RequireFromString("0.333")).StringFixed(2))
}

func TestPurchaseOrderItems_Recalculate(t *testing.T) {
	items := domain.PurchaseOrderItems{
		{Name: "Panel", Quantity: 3, UnitPrice: decimal.RequireFromString("150.00"), Total: decimal.NewFromInt(1)},
		{Name: "Inverter", Quantity: 1, UnitPrice: decimal.RequireFromString("1200.50")},
	}

	sum := items.Recalculate()

	assert.Equal(t, "450.00", items[0].Total.StringFixed(2), "client supplied total is overwritten")
	assert.Equal(t, "1200.50", items[1].Total.StringFixed(2))
	assert.Equal(t, "1650.50", sum.StringFixed(2))
}

func TestInvoiceTotals(t *testing.T) {
	items := domain.InvoiceItems{
		{Description: "Installation", Quantity: 3, Rate: decimal.RequireFromString("150.00")},
		{Description: "Commissioning", Quantity: 2, Rate: decimal.RequireFromString("25.25")},
	}

	amount, total := domain.InvoiceTotals(items, decimal.RequireFromString("90.10"))

	assert.Equal(t, "500.50", amount.StringFixed(2))
	assert.Equal(t, "590.60", total.StringFixed(2))
	assert.Equal(t, "450.00", items[0].Amount.StringFixed(2))
}

func TestInvoiceTotals_NoItems(t *testing.T) {
	amount, total := domain.InvoiceTotals(nil, decimal.NewFromInt(10))
	assert.True(t, amount.IsZero())
	assert.Equal(t, "10.00", total.StringFixed(2))
}

func TestJSONColumns_RoundTrip(t *testing.T) {
	t.Run("nil items are stored as an empty array", func(t *testing.T) {
		var items domain.PurchaseOrderItems
		v, err := items.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("dependencies scan from bytes", func(t *testing.T) {
		var ids domain.IDList
		require.NoError(t, ids.Scan([]byte("[4,8,15]")))
		assert.Equal(t, domain.IDList{4, 8, 15}, ids)
	})

	t.Run("null metadata scans to nil", func(t *testing.T) {
		var m domain.JSONMap
		require.NoError(t, m.Scan(nil))
		assert.Nil(t, m)
	})

	t.Run("unsupported source type", func(t *testing.T) {
		var ids domain.IDList
		assert.Error(t, ids.Scan(42))
	})
}

func TestLeadStage(t *testing.T) {
	assert.Len(t, domain.LeadStages, 7)
	assert.Equal(t, domain.LeadStageGeneration, domain.LeadStages[0])
	assert.Equal(t, domain.LeadStageRejected, domain.LeadStages[6])

	assert.True(t, domain.LeadStage("proposal").IsValid())
	assert.False(t, domain.LeadStage("won").IsValid())

	assert.True(t, domain.LeadStageConfirmed.IsClosed())
	assert.True(t, domain.LeadStageRejected.IsClosed())
	assert.False(t, domain.LeadStageNegotiations.IsClosed())
	assert.False(t, domain.LeadStage("won").IsClosed())
	assert.ElementsMatch(t, []domain.ProjectStatus{domain.ProjectStatusPlanning, domain.ProjectStatusInProgress}, domain.ActiveProjectStatuses)
}
