package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kustodia/internal/delegation"
	"kustodia/internal/identity"
	"kustodia/pkg/domain"
)

// GatewayService defines the gateway operations the HTTP layer exposes.
type GatewayService interface {
	AddCreditor(ctx context.Context, code domain.Hash32, addr domain.Address, name, metadata string) (identity.Creditor, error)
	AddDebtor(ctx context.Context, nik domain.Hash32, addr domain.Address) (identity.Debtor, error)
	RemoveCreditor(ctx context.Context, code domain.Hash32) error
	RemoveDebtor(ctx context.Context, nik domain.Hash32) error
	GetCreditor(ctx context.Context, code domain.Hash32) (identity.Creditor, error)
	GetDebtor(ctx context.Context, nik domain.Hash32) (identity.Debtor, error)
	AddCreditorForDebtor(ctx context.Context, nik, code domain.Hash32, metadata string) error
	RequestDelegation(ctx context.Context, nik, consumerCode, providerCode domain.Hash32, metadata string) (delegation.Request, error)
	Delegate(ctx context.Context, nik, consumerCode, providerCode domain.Hash32, decision domain.Decision, metadata string) (delegation.Request, error)
	ListCreditorStatuses(ctx context.Context, nik domain.Hash32) ([]delegation.CreditorStatus, error)
	ListCreditorsByStatus(ctx context.Context, nik domain.Hash32, status domain.Status) ([]domain.Address, error)
	SetPlatformAddress(ctx context.Context, addr domain.Address) error
}

// RegistryHandler serves the creditor and debtor registry endpoints.
type RegistryHandler struct {
	gateway GatewayService
	logger  *slog.Logger
}

func NewRegistryHandler(gateway GatewayService, logger *slog.Logger) *RegistryHandler {
	return &RegistryHandler{gateway: gateway, logger: logger}
}

func (h *RegistryHandler) Register(r chi.Router) {
	r.Post("/registry/creditors", h.handleAddCreditor)
	r.Get("/registry/creditors/{code}", h.handleGetCreditor)
	r.Delete("/registry/creditors/{code}", h.handleRemoveCreditor)

	r.Post("/registry/debtors", h.handleAddDebtor)
	r.Get("/registry/debtors/{nik}", h.handleGetDebtor)
	r.Delete("/registry/debtors/{nik}", h.handleRemoveDebtor)
}

type addCreditorRequest struct {
	Code     domain.Hash32  `json:"code"`
	Address  domain.Address `json:"address"`
	Name     string         `json:"name"`
	Metadata string         `json:"metadata"`
}

type creditorResponse struct {
	Code         domain.Hash32  `json:"code"`
	Address      domain.Address `json:"address"`
	Name         string         `json:"name"`
	RegisteredAt time.Time      `json:"registered_at"`
}

type addDebtorRequest struct {
	NIK     domain.Hash32  `json:"nik"`
	Address domain.Address `json:"address"`
}

type debtorResponse struct {
	NIK          domain.Hash32  `json:"nik"`
	Address      domain.Address `json:"address"`
	RegisteredAt time.Time      `json:"registered_at"`
}

func (h *RegistryHandler) handleAddCreditor(w http.ResponseWriter, r *http.Request) {
	var req addCreditorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	creditor, err := h.gateway.AddCreditor(r.Context(), req.Code, req.Address, req.Name, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, creditorResponse{
		Code:         creditor.Code,
		Address:      creditor.Address,
		Name:         creditor.Name,
		RegisteredAt: creditor.RegisteredAt,
	})
}

func (h *RegistryHandler) handleGetCreditor(w http.ResponseWriter, r *http.Request) {
	code, err := domain.ParseHash32(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	creditor, err := h.gateway.GetCreditor(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, creditorResponse{
		Code:         creditor.Code,
		Address:      creditor.Address,
		Name:         creditor.Name,
		RegisteredAt: creditor.RegisteredAt,
	})
}

func (h *RegistryHandler) handleRemoveCreditor(w http.ResponseWriter, r *http.Request) {
	code, err := domain.ParseHash32(chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.gateway.RemoveCreditor(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RegistryHandler) handleAddDebtor(w http.ResponseWriter, r *http.Request) {
	var req addDebtorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	debtor, err := h.gateway.AddDebtor(r.Context(), req.NIK, req.Address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, debtorResponse{
		NIK:          debtor.NIK,
		Address:      debtor.Address,
		RegisteredAt: debtor.RegisteredAt,
	})
}

func (h *RegistryHandler) handleGetDebtor(w http.ResponseWriter, r *http.Request) {
	nik, err := domain.ParseHash32(chi.URLParam(r, "nik"))
	if err != nil {
		writeError(w, err)
		return
	}
	debtor, err := h.gateway.GetDebtor(r.Context(), nik)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, debtorResponse{
		NIK:          debtor.NIK,
		Address:      debtor.Address,
		RegisteredAt: debtor.RegisteredAt,
	})
}

func (h *RegistryHandler) handleRemoveDebtor(w http.ResponseWriter, r *http.Request) {
	nik, err := domain.ParseHash32(chi.URLParam(r, "nik"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.gateway.RemoveDebtor(r.Context(), nik); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
