package adaptor

import (
	"net/http"
	"strings"

	"local-market/internal/dto/request"
	"local-market/internal/usecase"
	"local-market/pkg/utils"

	"go.uber.org/zap"
)

type FairHandler struct {
	service usecase.FairService
	log     *zap.Logger
}

func NewFairHandler(service usecase.FairService, log *zap.Logger) *FairHandler {
	return &FairHandler{
		service: service,
		log:     log.With(zap.String("handler", "fair")),
	}
}

// CreateFair handles POST /fair (admin only)
func (h *FairHandler) CreateFair(w http.ResponseWriter, r *http.Request) {
	var req request.CreateFairRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	fair, err := h.service.CreateFair(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create fair")
		return
	}

	utils.ResponseCreated(w, "Fair created successfully", fair)
}

// GetFair handles GET /fair/{id}
func (h *FairHandler) GetFair(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	fair, err := h.service.GetFair(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get fair")
		return
	}

	utils.ResponseSuccess(w, "Fair retrieved successfully", fair)
}

// ListFairs handles GET /fair?name=&page=&per_page=
func (h *FairHandler) ListFairs(w http.ResponseWriter, r *http.Request) {
	req := request.FairFilterRequest{PaginatedRequest: pagination(r)}
	if name := strings.TrimSpace(r.URL.Query().Get("name")); name != "" {
		req.Name = &name
	}

	fairs, err := h.service.ListFairs(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list fairs")
		return
	}

	utils.ResponseSuccess(w, "Fairs retrieved successfully", fairs)
}

// UpdateFair handles PATCH /fair/{id} (admin only)
func (h *FairHandler) UpdateFair(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req request.UpdateFairRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fair, err := h.service.UpdateFair(r.Context(), id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update fair")
		return
	}

	utils.ResponseSuccess(w, "Fair updated successfully", fair)
}

// DeleteFair handles DELETE /fair/{id} (admin only)
func (h *FairHandler) DeleteFair(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteFair(r.Context(), id); err != nil {
		handleServiceError(h.log, w, err, "delete fair")
		return
	}

	utils.ResponseSuccess(w, "Fair deleted successfully", nil)
}
