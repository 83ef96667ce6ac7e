package adaptor

import (
	"net/http"

	"local-market/internal/dto/request"
	"local-market/internal/usecase"
	"local-market/pkg/utils"

	"go.uber.org/zap"
)

type ShopHandler struct {
	service usecase.ShopService
	log     *zap.Logger
}

func NewShopHandler(service usecase.ShopService, log *zap.Logger) *ShopHandler {
	return &ShopHandler{
		service: service,
		log:     log.With(zap.String("handler", "shop")),
	}
}

// CreateShop handles POST /shop
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req request.CreateShopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	shop, err := h.service.CreateShop(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create shop")
		return
	}

	utils.ResponseCreated(w, "Shop created successfully", shop)
}

// GetShop handles GET /shop/{id}
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	shop, err := h.service.GetShop(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get shop")
		return
	}

	utils.ResponseSuccess(w, "Shop retrieved successfully", shop)
}

// ListShops handles GET /shop?fair_id=&seller_id=
func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.ShopFilterRequest{PaginatedRequest: pagination(r)}
	if v := query.Get("fair_id"); v != "" {
		req.FairID = &v
	}
	if v := query.Get("seller_id"); v != "" {
		req.SellerID = &v
	}

	shops, err := h.service.ListShops(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list shops")
		return
	}

	utils.ResponseSuccess(w, "Shops retrieved successfully", shops)
}

// UpdateShop handles PATCH /shop/{id} (owner or admin)
func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req request.UpdateShopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	shop, err := h.service.UpdateShop(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update shop")
		return
	}

	utils.ResponseSuccess(w, "Shop updated successfully", shop)
}

// DeleteShop handles DELETE /shop/{id} (owner or admin)
func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteShop(r.Context(), userID, id); err != nil {
		handleServiceError(h.log, w, err, "delete shop")
		return
	}

	utils.ResponseSuccess(w, "Shop deleted successfully", nil)
}
