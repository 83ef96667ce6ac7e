package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"local-market/pkg/utils"

	"go.uber.org/zap"
)

// GeocodeProxy is satisfied by *geocode.Client.
type GeocodeProxy interface {
	Geocode(ctx context.Context, address string) (json.RawMessage, error)
	Directions(ctx context.Context, origin, destination string) (json.RawMessage, error)
}

type GeocodeHandler struct {
	proxy GeocodeProxy
	log   *zap.Logger
}

func NewGeocodeHandler(proxy GeocodeProxy, log *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		proxy: proxy,
		log:   log.With(zap.String("handler", "geocode")),
	}
}

// Geocode handles GET /geocode/geocode?address=
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		utils.ResponseBadRequest(w, "address query parameter is required", nil)
		return
	}

	body, err := h.proxy.Geocode(r.Context(), address)
	if err != nil {
		h.log.Error("Geocode proxy failed", zap.Error(err))
		utils.ResponseBadGateway(w, "Geocoding service unavailable")
		return
	}

	utils.ResponseSuccess(w, "Geocode retrieved successfully", body)
}

// Directions handles GET /geocode/directions?origin=&destination=
func (h *GeocodeHandler) Directions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	origin := strings.TrimSpace(query.Get("origin"))
	destination := strings.TrimSpace(query.Get("destination"))
	if origin == "" || destination == "" {
		utils.ResponseBadRequest(w, "origin and destination query parameters are required", nil)
		return
	}

	body, err := h.proxy.Directions(r.Context(), origin, destination)
	if err != nil {
		h.log.Error("Directions proxy failed", zap.Error(err))
		utils.ResponseBadGateway(w, "Directions service unavailable")
		return
	}

	utils.ResponseSuccess(w, "Directions retrieved successfully", body)
}
