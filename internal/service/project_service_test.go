package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/repository"
	"github.com/solarepc/epc-api/internal/service"
	"github.com/solarepc/epc-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func createProjectRequest(name string) *domain.CreateProjectRequest {
	return &domain.CreateProjectRequest{
		Name:          name,
		Client:        "Godavari Mills",
		Capacity:      ptr(decimal.RequireFromString("3.2")),
		ContractValue: ptr(decimal.RequireFromString("180000")),
	}
}

func TestProjectService_Create(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(9)

	project, err := s.projects.Create(ctx, createProjectRequest("Mill Rooftop"))
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusPlanning, project.Status)
	assert.Equal(t, domain.ProjectTypeRooftop, project.ProjectType)
	assert.Equal(t, "3.20", project.Capacity)
	assert.Equal(t, "180000.00", project.ContractValue)

	activities := activitiesFor(t, s.db, domain.EntityProject, project.ID)
	require.Len(t, activities, 1)
	assert.Equal(t, "Project created: Mill Rooftop", activities[0].Description)
	assert.Equal(t, uint(9), activities[0].PerformedBy)
}

func TestProjectService_Create_WithLead(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(1)
	lead := testutil.CreateTestLead(t, s.db, "Linked Co", domain.LeadStageConfirmed, "1000")

	req := createProjectRequest("Linked")
	req.LeadID = &lead.ID
	_, err := s.projects.Create(ctx, req)
	require.NoError(t, err)

	_, err = s.projects.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrConflict, "a lead links to at most one project")

	missing := uint(5000)
	req.LeadID = &missing
	_, err = s.projects.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestProjectService_UpdateAndStats(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(1)

	project, err := s.projects.Create(ctx, createProjectRequest("Alpha"))
	require.NoError(t, err)
	_, err = s.projects.Create(ctx, createProjectRequest("Beta"))
	require.NoError(t, err)

	stats, err := s.projects.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProjects)
	assert.Equal(t, "6.40", stats.TotalCapacity)
	assert.Equal(t, int64(2), stats.ActiveProjects)
	assert.True(t, s.cache.has(cache.KeyProjectStats))

	completed := domain.ProjectStatusCompleted
	progress := 100
	updated, err := s.projects.Update(ctx, project.ID, &domain.UpdateProjectRequest{Status: &completed, Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusCompleted, updated.Status)
	assert.Equal(t, "Alpha", updated.Name)
	assert.False(t, s.cache.has(cache.KeyProjectStats))

	stats, err = s.projects.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveProjects)

	activities := activitiesFor(t, s.db, domain.EntityProject, project.ID)
	require.Len(t, activities, 2)
	assert.Equal(t, domain.ActionStatusChanged, activities[1].Action)
}

func TestVendorService(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(1)

	b, err := s.vendors.Create(ctx, &domain.CreateVendorRequest{Name: "Bharat Cables", ContactPerson: "R", Email: "b@example.com", Category: "cables"})
	require.NoError(t, err)
	assert.True(t, b.IsActive)
	assert.Equal(t, domain.VendorTier3, b.Tier)

	_, err = s.vendors.Create(ctx, &domain.CreateVendorRequest{Name: "Apex Inverters", ContactPerson: "S", Email: "a@example.com", Category: "inverters", Tier: domain.VendorTier1})
	require.NoError(t, err)

	vendors, err := s.vendors.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "Apex Inverters", vendors[0].Name)

	inactive := false
	updated, err := s.vendors.Update(ctx, b.ID, &domain.UpdateVendorRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	vendors, err = s.vendors.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, vendors, 1)

	_, err = s.vendors.GetByID(ctx, 404)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestVendorService_DeactivationLogsVendor(t *testing.T) {
	s := newTestServices(t)
	ctx := userContext(1)
	core, logs := observer.New(zapcore.InfoLevel)
	vendors := service.NewVendorService(repository.NewVendorRepository(s.db), zap.New(core))

	v, err := vendors.Create(ctx, &domain.CreateVendorRequest{Name: "Surya Mounts", ContactPerson: "K", Email: "k@example.com", Category: "structures"})
	require.NoError(t, err)
	_, err = vendors.Update(ctx, v.ID, &domain.UpdateVendorRequest{IsActive: ptr(false)})
	require.NoError(t, err)

	entries := logs.FilterMessage("vendor deactivated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntityVendor, entries[0].ContextMap()["entity_type"])
	assert.Equal(t, uint64(v.ID), entries[0].ContextMap()["entity_id"])
}
