package handler

import (
	"net/http"

	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/service"
	"go.uber.org/zap"
)

type PurchaseOrderHandler struct {
	purchaseOrderService *service.PurchaseOrderService
	logger               *zap.Logger
}

func NewPurchaseOrderHandler(purchaseOrderService *service.PurchaseOrderService, logger *zap.Logger) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{purchaseOrderService: purchaseOrderService, logger: logger}
}

// List godoc
// @Summary List purchase orders
// @Tags PurchaseOrders
// @Produce json
// @Param limit query int false "Page size (max 200)" default(50)
// @Param offset query int false "Rows to skip" default(0)
// @Success 200 {array} domain.PurchaseOrderDTO
// @Router /purchase-orders [get]
func (h *PurchaseOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)
	orders, err := h.purchaseOrderService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, h.logger, err, "Purchase order", "fetch purchase orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// Stats godoc
// @Summary Purchasing statistics
// @Description Order count, value of pending orders and number of active vendors
// @Tags PurchaseOrders
// @Produce json
// @Success 200 {object} domain.PurchaseStatsDTO
// @Router /purchase-orders/stats [get]
func (h *PurchaseOrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.purchaseOrderService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Purchase order", "fetch purchase order stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetByID godoc
// @Summary Get purchase order
// @Tags PurchaseOrders
// @Produce json
// @Param id path int true "Purchase order ID"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 404 {object} domain.APIError
// @Router /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "purchase order")
	if !ok {
		return
	}
	po, err := h.purchaseOrderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Purchase order", "fetch purchase order")
		return
	}
	respondJSON(w, http.StatusOK, po)
}

// Create godoc
// @Summary Create purchase order
// @Description Line totals and the order total are computed by the server. The PO number is generated when omitted.
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param request body domain.CreatePurchaseOrderRequest true "Purchase order"
// @Success 201 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePurchaseOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	po, err := h.purchaseOrderService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Purchase order", "create purchase order")
		return
	}
	respondJSON(w, http.StatusCreated, po)
}

// Update godoc
// @Summary Update purchase order
// @Tags PurchaseOrders
// @Accept json
// @Produce json
// @Param id path int true "Purchase order ID"
// @Param request body domain.UpdatePurchaseOrderRequest true "Fields to change"
// @Success 200 {object} domain.PurchaseOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id", "purchase order")
	if !ok {
		return
	}
	var req domain.UpdatePurchaseOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	po, err := h.purchaseOrderService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Purchase order", "update purchase order")
		return
	}
	respondJSON(w, http.StatusOK, po)
}
