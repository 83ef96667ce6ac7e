package adaptor

import (
	"net/http"

	"local-market/internal/usecase"
	"local-market/pkg/utils"

	"go.uber.org/zap"
)

type PartyHandler struct {
	service usecase.PartyService
	log     *zap.Logger
}

func NewPartyHandler(service usecase.PartyService, log *zap.Logger) *PartyHandler {
	return &PartyHandler{
		service: service,
		log:     log.With(zap.String("handler", "party")),
	}
}

// ListAdmins handles GET /admin
func (h *PartyHandler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	req := pagination(r)
	admins, err := h.service.ListAdmins(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list admins")
		return
	}
	utils.ResponseSuccess(w, "Admins retrieved successfully", admins)
}

// ListSellers handles GET /seller
func (h *PartyHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	req := pagination(r)
	sellers, err := h.service.ListSellers(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list sellers")
		return
	}
	utils.ResponseSuccess(w, "Sellers retrieved successfully", sellers)
}

// ListClients handles GET /client
func (h *PartyHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	req := pagination(r)
	clients, err := h.service.ListClients(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "list clients")
		return
	}
	utils.ResponseSuccess(w, "Clients retrieved successfully", clients)
}
