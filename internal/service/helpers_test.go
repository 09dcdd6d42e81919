package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/metrics"
	"github.com/solarepc/epc-api/internal/repository"
	"github.com/solarepc/epc-api/internal/service"
	"github.com/solarepc/epc-api/internal/storage"
	"github.com/solarepc/epc-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// memoryCache is an in-process StatsCache that remembers invalidations
type memoryCache struct {
	mu          sync.Mutex
	values      map[string][]byte
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = raw
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

type testServices struct {
	db        *gorm.DB
	cache     *memoryCache
	metrics   *metrics.Metrics
	tokens    *auth.TokenManager
	activity  *service.ActivityService
	leads     *service.LeadService
	projects  *service.ProjectService
	vendors   *service.VendorService
	orders    *service.PurchaseOrderService
	invoices  *service.InvoiceService
	tasks     *service.TaskService
	documents *service.DocumentService
	dashboard *service.DashboardService
	users     *service.UserService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	statsCache := newMemoryCache()
	m := metrics.New(logger)
	tokens := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "test-secret", TokenTTL: 60, Issuer: "test"})

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	leadRepo := repository.NewLeadRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	activity := service.NewActivityService(repository.NewActivityRepository(db), m, logger)
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)

	return &testServices{
		db:        db,
		cache:     statsCache,
		metrics:   m,
		tokens:    tokens,
		activity:  activity,
		leads:     service.NewLeadService(db, leadRepo, projectRepo, activity, statsCache, m, logger),
		projects:  service.NewProjectService(db, projectRepo, leadRepo, activity, statsCache, logger),
		vendors:   service.NewVendorService(repository.NewVendorRepository(db), logger),
		orders:    service.NewPurchaseOrderService(db, repository.NewPurchaseOrderRepository(db), numbers, activity, statsCache, logger),
		invoices:  service.NewInvoiceService(db, repository.NewInvoiceRepository(db), numbers, activity, statsCache, logger),
		tasks:     service.NewTaskService(db, repository.NewTaskRepository(db), activity, logger),
		documents: service.NewDocumentService(repository.NewDocumentRepository(db), store, logger),
		dashboard: service.NewDashboardService(projectRepo, leadRepo, statsCache, logger),
		users:     service.NewUserService(repository.NewUserRepository(db), tokens, logger),
	}
}

func userContext(id uint) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{UserID: id, Username: "tester", Role: domain.RoleSales})
}

func activitiesFor(t *testing.T, db *gorm.DB, entityType string, entityID uint) []domain.Activity {
	t.Helper()
	var activities []domain.Activity
	require.NoError(t, db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).Order("id ASC").Find(&activities).Error)
	return activities
}

func ptr[T any](v T) *T {
	return &v
}
