package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/http/handler"
	"github.com/solarepc/epc-api/internal/metrics"
	"github.com/solarepc/epc-api/internal/repository"
	"github.com/solarepc/epc-api/internal/service"
	"github.com/solarepc/epc-api/internal/storage"
	"github.com/solarepc/epc-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testHandlers struct {
	db         *gorm.DB
	leads      *handler.LeadHandler
	projects   *handler.ProjectHandler
	vendors    *handler.VendorHandler
	orders     *handler.PurchaseOrderHandler
	invoices   *handler.InvoiceHandler
	tasks      *handler.TaskHandler
	documents  *handler.DocumentHandler
	activities *handler.ActivityHandler
	dashboard  *handler.DashboardHandler
	auth       *handler.AuthHandler
	users      *service.UserService
}

func newTestHandlers(t *testing.T) *testHandlers {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	statsCache := cache.NoopCache{}
	m := metrics.New(logger)
	tokens := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "handler-secret", TokenTTL: 60})

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	leadRepo := repository.NewLeadRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	activity := service.NewActivityService(repository.NewActivityRepository(db), m, logger)
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)

	leads := service.NewLeadService(db, leadRepo, projectRepo, activity, statsCache, m, logger)
	projects := service.NewProjectService(db, projectRepo, leadRepo, activity, statsCache, logger)
	orders := service.NewPurchaseOrderService(db, repository.NewPurchaseOrderRepository(db), numbers, activity, statsCache, logger)
	invoices := service.NewInvoiceService(db, repository.NewInvoiceRepository(db), numbers, activity, statsCache, logger)
	tasks := service.NewTaskService(db, repository.NewTaskRepository(db), activity, logger)
	users := service.NewUserService(repository.NewUserRepository(db), tokens, logger)

	return &testHandlers{
		db:         db,
		leads:      handler.NewLeadHandler(leads, logger),
		projects:   handler.NewProjectHandler(projects, orders, invoices, tasks, logger),
		vendors:    handler.NewVendorHandler(service.NewVendorService(repository.NewVendorRepository(db), logger), logger),
		orders:     handler.NewPurchaseOrderHandler(orders, logger),
		invoices:   handler.NewInvoiceHandler(invoices, logger),
		tasks:      handler.NewTaskHandler(tasks, logger),
		documents:  handler.NewDocumentHandler(service.NewDocumentService(repository.NewDocumentRepository(db), store, logger), 1, logger),
		activities: handler.NewActivityHandler(activity, logger),
		dashboard:  handler.NewDashboardHandler(service.NewDashboardService(projectRepo, leadRepo, statsCache, logger), logger),
		auth:       handler.NewAuthHandler(users, logger),
		users:      users,
	}
}

// newRequest builds a request with a JSON body (when body is non-nil) and chi URL params
func newRequest(t *testing.T, method, target string, body interface{}, params map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return withURLParams(req, params)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	if len(params) == 0 {
		return req
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) domain.APIError {
	return decode[domain.APIError](t, rr)
}
