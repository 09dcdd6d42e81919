package handler

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	documentService *service.DocumentService
	maxUploadMB     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxUploadMB int64, logger *zap.Logger) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	return &DocumentHandler{
		documentService: documentService,
		maxUploadMB:     maxUploadMB,
		logger:          logger,
	}
}

// Upload godoc
// @Summary Upload document
// @Description Stores a file and attaches it to an entity
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param name formData string true "Display name"
// @Param type formData string true "Document type, e.g. drawing or contract"
// @Param entityType formData string true "lead, project, vendor, purchase_order, invoice or task"
// @Param entityId formData int true "Entity ID"
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("File too large or invalid form (max %dMB)", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	entityID, _ := strconv.ParseUint(r.FormValue("entityId"), 10, 64)
	req := domain.CreateDocumentRequest{
		Name:       r.FormValue("name"),
		Type:       r.FormValue("type"),
		EntityType: r.FormValue("entityType"),
		EntityID:   uint(entityID),
	}
	if req.Name == "" {
		req.Name = header.Filename
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.documentService.Upload(r.Context(), &req, header.Filename, contentType, file)
	if err != nil {
		respondServiceError(w, h.logger, err, "Document", "upload document")
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

// ListByEntity godoc
// @Summary List documents of an entity
// @Tags Documents
// @Produce json
// @Param entityType path string true "Entity type"
// @Param entityId path int true "Entity ID"
// @Success 200 {array} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Router /documents/{entityType}/{entityId} [get]
func (h *DocumentHandler) ListByEntity(w http.ResponseWriter, r *http.Request) {
	entityID, ok := parseID(w, r, "entityId", "entity")
	if !ok {
		return
	}
	docs, err := h.documentService.ListByEntity(r.Context(), chi.URLParam(r, "entityType"), entityID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Document", "fetch documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// Download godoc
// @Summary Download document
// @Tags Documents
// @Produce octet-stream
// @Param id path int true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "document")
	if !ok {
		return
	}

	doc, reader, err := h.documentService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Document", "download document")
		return
	}
	defer reader.Close()

	contentType := "application/octet-stream"
	if doc.MimeType != nil && *doc.MimeType != "" {
		contentType = *doc.MimeType
	}
	filename := doc.Name + path.Ext(doc.FilePath)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("document download interrupted", zap.Uint("document_id", id), zap.Error(err))
	}
}
