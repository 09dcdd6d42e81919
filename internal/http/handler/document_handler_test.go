package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		header.Set("Content-Type", "application/pdf")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestDocumentHandler_UploadListDownload(t *testing.T) {
	h := newTestHandlers(t)

	fields := map[string]string{"name": "Net metering approval", "type": "permit", "entityType": "project", "entityId": "4"}
	rr := httptest.NewRecorder()
	h.documents.Upload(rr, multipartUpload(t, fields, "approval.pdf", []byte("%PDF-approval")))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	doc := decode[domain.DocumentDTO](t, rr)
	assert.Equal(t, "project", doc.EntityType)
	assert.Equal(t, uint(4), doc.EntityID)
	require.NotNil(t, doc.FileSize)
	assert.Equal(t, int64(13), *doc.FileSize)

	rr = httptest.NewRecorder()
	h.documents.ListByEntity(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"entityType": "project", "entityId": "4"}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]domain.DocumentDTO](t, rr), 1)

	rr = httptest.NewRecorder()
	h.documents.Download(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": strconv.Itoa(int(doc.ID))}))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "Net metering approval.pdf")
	assert.Equal(t, "%PDF-approval", rr.Body.String())
}

func TestDocumentHandler_UploadRejects(t *testing.T) {
	h := newTestHandlers(t)

	t.Run("missing file", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.documents.Upload(rr, multipartUpload(t, map[string]string{"name": "x", "type": "y", "entityType": "lead", "entityId": "1"}, "", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown entity type", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.documents.Upload(rr, multipartUpload(t, map[string]string{"name": "x", "type": "y", "entityType": "spaceship", "entityId": "1"}, "a.pdf", []byte("a")))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing entity id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.documents.Upload(rr, multipartUpload(t, map[string]string{"type": "y", "entityType": "lead"}, "a.pdf", []byte("a")))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeError(t, rr)
		assert.Contains(t, apiErr.Errors, "entityId")
		assert.Contains(t, apiErr.Errors, "name")
		assert.NotContains(t, apiErr.Errors, "entityID")
	})

	t.Run("download of unknown document", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.documents.Download(rr, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "77"}))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
