package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kustodia/pkg/domain"
)

// AdminHandler serves owner-facing operations.
type AdminHandler struct {
	gateway GatewayService
	logger  *slog.Logger
}

func NewAdminHandler(gateway GatewayService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{gateway: gateway, logger: logger}
}

func (h *AdminHandler) Register(r chi.Router) {
	r.Put("/admin/platform-address", h.handleSetPlatformAddress)
}

type setPlatformAddressRequest struct {
	Address domain.Address `json:"address"`
}

func (h *AdminHandler) handleSetPlatformAddress(w http.ResponseWriter, r *http.Request) {
	var req setPlatformAddressRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.gateway.SetPlatformAddress(r.Context(), req.Address); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
