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

func validLeadBody() map[string]interface{} {
	return map[string]interface{}{
		"companyName":    "Sunrise Textiles",
		"contactPerson":  "Meera Iyer",
		"email":          "meera@sunrise.example",
		"capacity":       "2.5",
		"estimatedValue": 125000,
	}
}

func TestLeadHandler_Create(t *testing.T) {
	h := newTestHandlers(t)

	t.Run("creates with defaults", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, http.MethodPost, "/api/leads", validLeadBody(), nil))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		lead := decode[domain.LeadDTO](t, rr)
		assert.NotZero(t, lead.ID)
		assert.Equal(t, domain.LeadStageGeneration, lead.Stage)
		assert.Equal(t, "2.50", lead.Capacity)
		assert.Equal(t, "125000.00", lead.EstimatedValue)
		assert.NotEmpty(t, lead.CreatedAt)
	})

	t.Run("validation errors list every field", func(t *testing.T) {
		body := validLeadBody()
		delete(body, "companyName")
		body["email"] = "not-an-email"
		body["capacity"] = -1

		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, http.MethodPost, "/api/leads", body, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeError(t, rr)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Errors, "companyName")
		assert.Contains(t, apiErr.Errors, "email")
		assert.Contains(t, apiErr.Errors, "capacity")
		assert.Len(t, apiErr.Details, 3)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, http.MethodPost, "/api/leads", "{", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, domain.ErrorTypeBadRequest, decodeError(t, rr).Type)
	})

	t.Run("wrong JSON type is reported against the field", func(t *testing.T) {
		body := validLeadBody()
		body["companyName"] = 42

		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, http.MethodPost, "/api/leads", body, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeError(t, rr)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Equal(t, "Must be a valid string", apiErr.Errors["companyName"])
		require.Len(t, apiErr.Details, 1)
		assert.Equal(t, "companyName", apiErr.Details[0].Field)
	})

	t.Run("server-managed fields in the body are ignored", func(t *testing.T) {
		body := validLeadBody()
		body["id"] = 9999
		body["createdAt"] = "2000-01-01T00:00:00Z"
		body["updatedAt"] = "2000-01-01T00:00:00Z"

		rr := httptest.NewRecorder()
		h.leads.Create(rr, newRequest(t, http.MethodPost, "/api/leads", body, nil))

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		lead := decode[domain.LeadDTO](t, rr)
		assert.NotEqual(t, uint(9999), lead.ID)
		assert.Greater(t, lead.CreatedAt, "2020")
		assert.Greater(t, lead.UpdatedAt, "2020")

		var stored domain.Lead
		require.NoError(t, h.db.First(&stored, lead.ID).Error)
		assert.True(t, stored.CreatedAt.After(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

		rr = httptest.NewRecorder()
		h.leads.GetByID(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"id": "9999"}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestLeadHandler_GetByID(t *testing.T) {
	h := newTestHandlers(t)
	lead := testutil.CreateTestLead(t, h.db, "Fetch Co", domain.LeadStageCold, "10")

	rr := httptest.NewRecorder()
	h.leads.GetByID(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"id": strconv.Itoa(int(lead.ID))}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Fetch Co", decode[domain.LeadDTO](t, rr).CompanyName)

	rr = httptest.NewRecorder()
	h.leads.GetByID(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"id": "abc"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid lead ID", decodeError(t, rr).Detail)

	rr = httptest.NewRecorder()
	h.leads.GetByID(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"id": "9999"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Lead not found", decodeError(t, rr).Detail)
}

func TestLeadHandler_List(t *testing.T) {
	h := newTestHandlers(t)
	testutil.CreateTestLead(t, h.db, "A", domain.LeadStageCold, "1")
	testutil.CreateTestLead(t, h.db, "B", domain.LeadStageCold, "1")

	rr := httptest.NewRecorder()
	h.leads.List(rr, newRequest(t, http.MethodGet, "/api/leads?limit=1", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.LeadDTO](t, rr), 1)

	rr = httptest.NewRecorder()
	h.leads.List(rr, newRequest(t, http.MethodGet, "/api/leads?offset=50", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestLeadHandler_UpdateAndConvert(t *testing.T) {
	h := newTestHandlers(t)
	lead := testutil.CreateTestLead(t, h.db, "Move Co", domain.LeadStageCosting, "5000")
	params := map[string]string{"id": strconv.Itoa(int(lead.ID))}

	rr := httptest.NewRecorder()
	h.leads.Convert(rr, newRequest(t, http.MethodPost, "/", nil, params))
	assert.Equal(t, http.StatusConflict, rr.Code, "only confirmed leads convert")

	rr = httptest.NewRecorder()
	h.leads.Update(rr, newRequest(t, http.MethodPut, "/", map[string]string{"stage": "won"}, params))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.leads.Update(rr, newRequest(t, http.MethodPut, "/", map[string]string{"stage": "confirmed"}, params))
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[domain.LeadDTO](t, rr)
	assert.Equal(t, domain.LeadStageConfirmed, updated.Stage)
	assert.Equal(t, "Move Co", updated.CompanyName)

	rr = httptest.NewRecorder()
	h.leads.Convert(rr, newRequest(t, http.MethodPost, "/", nil, params))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	project := decode[domain.ProjectDTO](t, rr)
	assert.Equal(t, "Move Co Project", project.Name)
	require.NotNil(t, project.LeadID)
	assert.Equal(t, lead.ID, *project.LeadID)

	rr = httptest.NewRecorder()
	h.leads.Convert(rr, newRequest(t, http.MethodPost, "/", nil, params))
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "Lead has already been converted", decodeError(t, rr).Detail)

	rr = httptest.NewRecorder()
	h.activities.ListByEntity(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"entityType": "lead", "entityId": params["id"]}))
	require.Equal(t, http.StatusOK, rr.Code)
	activities := decode[[]domain.ActivityDTO](t, rr)
	require.Len(t, activities, 2)
	assert.Equal(t, domain.ActionConverted, activities[0].Action)
	assert.Equal(t, domain.ActionStageChanged, activities[1].Action)
}

func TestLeadHandler_Stats(t *testing.T) {
	h := newTestHandlers(t)
	testutil.CreateTestLead(t, h.db, "A", domain.LeadStageProposal, "100.50")
	testutil.CreateTestLead(t, h.db, "B", domain.LeadStageProposal, "200")

	rr := httptest.NewRecorder()
	h.leads.Stats(rr, newRequest(t, http.MethodGet, "/api/leads/stats", nil, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decode[[]domain.LeadStageStatDTO](t, rr)
	require.Len(t, stats, 1)
	assert.Equal(t, domain.LeadStageProposal, stats[0].Stage)
	assert.Equal(t, int64(2), stats[0].Count)
	assert.Equal(t, "300.50", stats[0].Value)

	rr = httptest.NewRecorder()
	h.leads.ListByStage(rr, newRequest(t, http.MethodGet, "/", nil, map[string]string{"stage": "won"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
