package handler

import (
	"net/http"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type VendorHandler struct {
	vendorService *service.VendorService
	logger        *zap.Logger
}

func NewVendorHandler(vendorService *service.VendorService, logger *zap.Logger) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, logger: logger}
}

// List godoc
// @Summary List active vendors
// @Description Active vendors ordered by name
// @Tags Vendors
// @Produce json
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} domain.VendorDTO
// @Router /vendors [get]
func (h *VendorHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	vendors, err := h.vendorService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Vendor", "fetch vendors")
		return
	}
	respondJSON(w, http.StatusOK, vendors)
}

// GetByID godoc
// @Summary Get vendor
// @Tags Vendors
// @Produce json
// @Param id path int true "Vendor ID"
// @Success 200 {object} domain.VendorDTO
// @Failure 404 {object} domain.APIError
// @Router /vendors/{id} [get]
func (h *VendorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "vendor")
	if !ok {
		return
	}
	vendor, err := h.vendorService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Vendor", "fetch vendor")
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}

// Create godoc
// @Summary Create vendor
// @Tags Vendors
// @Accept json
// @Produce json
// @Param request body domain.CreateVendorRequest true "Vendor data"
// @Success 201 {object} domain.VendorDTO
// @Failure 400 {object} domain.APIError
// @Router /vendors [post]
func (h *VendorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	vendor, err := h.vendorService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Vendor", "create vendor")
		return
	}
	respondJSON(w, http.StatusCreated, vendor)
}

// Update godoc
// @Summary Update vendor
// @Description Setting isActive=false hides the vendor from the list
// @Tags Vendors
// @Accept json
// @Produce json
// @Param id path int true "Vendor ID"
// @Param request body domain.UpdateVendorRequest true "Fields to change"
// @Success 200 {object} domain.VendorDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Router /vendors/{id} [put]
func (h *VendorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "vendor")
	if !ok {
		return
	}
	var req domain.UpdateVendorRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	vendor, err := h.vendorService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Vendor", "update vendor")
		return
	}
	respondJSON(w, http.StatusOK, vendor)
}
