package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kustodia/internal/delegation"
	"kustodia/pkg/domain"
)

// DelegationHandler serves the per-debtor ledger and the delegation
// request/decision endpoints.
type DelegationHandler struct {
	gateway GatewayService
	logger  *slog.Logger
}

func NewDelegationHandler(gateway GatewayService, logger *slog.Logger) *DelegationHandler {
	return &DelegationHandler{gateway: gateway, logger: logger}
}

func (h *DelegationHandler) Register(r chi.Router) {
	r.Post("/debtors/{nik}/creditors", h.handleBootstrapCreditor)
	r.Get("/debtors/{nik}/creditors", h.handleListCreditors)

	r.Post("/delegations/requests", h.handleRequestDelegation)
	r.Post("/delegations/decisions", h.handleDelegate)
}

type bootstrapCreditorRequest struct {
	CreditorCode domain.Hash32 `json:"creditor_code"`
	Metadata     string        `json:"metadata"`
}

type creditorStatusResponse struct {
	Creditor domain.Address `json:"creditor"`
	Status   domain.Status  `json:"status"`
}

type requestDelegationRequest struct {
	NIK          domain.Hash32 `json:"nik"`
	ConsumerCode domain.Hash32 `json:"consumer_code"`
	ProviderCode domain.Hash32 `json:"provider_code"`
	Metadata     string        `json:"metadata"`
}

type delegateRequest struct {
	NIK          domain.Hash32 `json:"nik"`
	ConsumerCode domain.Hash32 `json:"consumer_code"`
	ProviderCode domain.Hash32 `json:"provider_code"`
	Decision     string        `json:"decision"`
	Metadata     string        `json:"metadata"`
}

type delegationResponse struct {
	Consumer   domain.Address `json:"consumer"`
	Provider   domain.Address `json:"provider"`
	NIK        domain.Hash32  `json:"nik"`
	Status     domain.Status  `json:"status"`
	Metadata   string         `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
}

func toDelegationResponse(req delegation.Request) delegationResponse {
	return delegationResponse{
		Consumer:   req.Consumer,
		Provider:   req.Provider,
		NIK:        req.NIK,
		Status:     req.Status,
		Metadata:   req.Metadata,
		CreatedAt:  req.CreatedAt,
		ResolvedAt: req.ResolvedAt,
	}
}

func (h *DelegationHandler) handleBootstrapCreditor(w http.ResponseWriter, r *http.Request) {
	nik, err := domain.ParseHash32(chi.URLParam(r, "nik"))
	if err != nil {
		writeError(w, err)
		return
	}
	var req bootstrapCreditorRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.gateway.AddCreditorForDebtor(r.Context(), nik, req.CreditorCode, req.Metadata); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DelegationHandler) handleListCreditors(w http.ResponseWriter, r *http.Request) {
	nik, err := domain.ParseHash32(chi.URLParam(r, "nik"))
	if err != nil {
		writeError(w, err)
		return
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		creditors, err := h.gateway.ListCreditorsByStatus(r.Context(), nik, status)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"creditors": creditors})
		return
	}

	statuses, err := h.gateway.ListCreditorStatuses(r.Context(), nik)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]creditorStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, creditorStatusResponse{Creditor: s.Creditor, Status: s.Status})
	}
	writeJSON(w, http.StatusOK, map[string]any{"creditors": out})
}

func (h *DelegationHandler) handleRequestDelegation(w http.ResponseWriter, r *http.Request) {
	var req requestDelegationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	created, err := h.gateway.RequestDelegation(r.Context(), req.NIK, req.ConsumerCode, req.ProviderCode, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDelegationResponse(created))
}

func (h *DelegationHandler) handleDelegate(w http.ResponseWriter, r *http.Request) {
	var req delegateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	decision, err := domain.ParseDecision(req.Decision)
	if err != nil {
		writeError(w, err)
		return
	}
	resolved, err := h.gateway.Delegate(r.Context(), req.NIK, req.ConsumerCode, req.ProviderCode, decision, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDelegationResponse(resolved))
}
