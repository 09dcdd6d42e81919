package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOrderHandler_Create(t *testing.T) {
	h := newTestHandlers(t)
	project := testutil.CreateTestProject(t, h.db, "Rooftop 1", domain.ProjectStatusInProgress, "1.00")

	body := map[string]interface{}{
		"projectId": project.ID,
		"items": []map[string]interface{}{
			{"name": "Mono PERC panel", "quantity": 3, "unitPrice": "150.00", "total": "1.00"},
		},
	}

	rr := httptest.NewRecorder()
	h.orders.Create(rr, newRequest(t, http.MethodPost, "/api/purchase-orders", body, nil))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	po := decode[domain.PurchaseOrderDTO](t, rr)
	require.Len(t, po.Items, 1)
	assert.Equal(t, "450.00", po.Items[0].Total)
	assert.Equal(t, "450.00", po.TotalAmount)
	assert.Equal(t, domain.POStatusPending, po.Status)
	assert.Regexp(t, `^PO-\d{4}-000001$`, po.PONumber)

	rr = httptest.NewRecorder()
	h.projects.ListPurchaseOrders(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"id": strconv.Itoa(int(project.ID))}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.PurchaseOrderDTO](t, rr), 1)
}

func TestPurchaseOrderHandler_ValidationPaths(t *testing.T) {
	h := newTestHandlers(t)

	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{"name": "ok", "quantity": 1, "unitPrice": "1"},
			{"name": "bad", "quantity": 0, "unitPrice": "1"},
		},
	}
	rr := httptest.NewRecorder()
	h.orders.Create(rr, newRequest(t, http.MethodPost, "/api/purchase-orders", body, nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Contains(t, apiErr.Errors, "items[1].quantity")
}

func TestInvoiceHandler_CreateAndPay(t *testing.T) {
	h := newTestHandlers(t)

	body := map[string]interface{}{
		"type":      "client_invoice",
		"taxAmount": "90.09",
		"status":    "sent",
		"dueDate":   time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
		"items": []map[string]interface{}{
			{"description": "Installation", "quantity": 3, "rate": "150.00"},
			{"description": "Commissioning", "quantity": 2, "rate": "25.25"},
		},
	}
	rr := httptest.NewRecorder()
	h.invoices.Create(rr, newRequest(t, http.MethodPost, "/api/invoices", body, nil))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	invoice := decode[domain.InvoiceDTO](t, rr)
	assert.Equal(t, "500.50", invoice.Amount)
	assert.Equal(t, "590.59", invoice.TotalAmount)
	assert.Nil(t, invoice.PaidDate)

	params := map[string]string{"id": strconv.Itoa(int(invoice.ID))}
	rr = httptest.NewRecorder()
	h.invoices.Update(rr, newRequest(t, http.MethodPut, "/", map[string]string{"status": "paid"}, params))
	require.Equal(t, http.StatusOK, rr.Code)
	paid := decode[domain.InvoiceDTO](t, rr)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.NotNil(t, paid.PaidDate)

	rr = httptest.NewRecorder()
	h.invoices.Stats(rr, newRequest(t, http.MethodGet, "/api/invoices/stats", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[domain.FinanceStatsDTO](t, rr)
	assert.Equal(t, "590.59", stats.Collected)
}

func TestInvoiceHandler_MissingDueDate(t *testing.T) {
	h := newTestHandlers(t)

	rr := httptest.NewRecorder()
	h.invoices.Create(rr, newRequest(t, http.MethodPost, "/api/invoices", map[string]string{"type": "client_invoice"}, nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeError(t, rr).Errors, "dueDate")
}

func TestTaskHandler(t *testing.T) {
	h := newTestHandlers(t)
	project := testutil.CreateTestProject(t, h.db, "Ground mount", domain.ProjectStatusPlanning, "10.00")

	rr := httptest.NewRecorder()
	h.tasks.Create(rr, newRequest(t, http.MethodPost, "/api/tasks", map[string]interface{}{
		"projectId": project.ID,
		"title":     "Soil test",
	}, nil))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	task := decode[domain.TaskDTO](t, rr)
	assert.Equal(t, []uint{}, task.Dependencies)

	rr = httptest.NewRecorder()
	h.tasks.Update(rr, newRequest(t, http.MethodPut, "/", map[string]string{"status": "completed"}, map[string]string{"id": strconv.Itoa(int(task.ID))}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotNil(t, decode[domain.TaskDTO](t, rr).CompletedDate)

	rr = httptest.NewRecorder()
	h.tasks.List(rr, newRequest(t, http.MethodGet, "/api/tasks?projectId="+strconv.Itoa(int(project.ID)), nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.TaskDTO](t, rr), 1)

	rr = httptest.NewRecorder()
	h.tasks.List(rr, newRequest(t, http.MethodGet, "/api/tasks?projectId=x", nil, nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.tasks.Stats(rr, newRequest(t, http.MethodGet, "/api/tasks/stats", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1), decode[domain.TaskStatsDTO](t, rr).Completed)
}

func TestVendorHandler_Deactivate(t *testing.T) {
	h := newTestHandlers(t)
	vendor := testutil.CreateTestVendor(t, h.db, "Tata Power Solar")

	rr := httptest.NewRecorder()
	h.vendors.Update(rr, newRequest(t, http.MethodPut, "/", map[string]bool{"isActive": false}, map[string]string{"id": strconv.Itoa(int(vendor.ID))}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[domain.VendorDTO](t, rr).IsActive)

	rr = httptest.NewRecorder()
	h.vendors.List(rr, newRequest(t, http.MethodGet, "/api/vendors", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestDashboardHandler_Stats(t *testing.T) {
	h := newTestHandlers(t)
	testutil.CreateTestProject(t, h.db, "P", domain.ProjectStatusPlanning, "4.20")
	testutil.CreateTestLead(t, h.db, "L", domain.LeadStageCold, "99.99")

	rr := httptest.NewRecorder()
	h.dashboard.Stats(rr, newRequest(t, http.MethodGet, "/api/dashboard/stats", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[domain.DashboardStatsDTO](t, rr)
	assert.Equal(t, int64(1), stats.TotalProjects)
	assert.Equal(t, "4.20", stats.MegawattCapacity)
	assert.Equal(t, "99.99", stats.PipelineValue)
}
