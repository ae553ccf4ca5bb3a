package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kustodia/internal/relay"
	"kustodia/pkg/domain"
	dErrors "kustodia/pkg/domainerrors"
	"kustodia/pkg/requestcontext"
)

// Dispatcher executes one signed envelope.
type Dispatcher interface {
	Execute(ctx context.Context, env relay.Envelope) error
}

// RelayHandler accepts signed envelopes for dispatch. When platformOnly is
// set, only the platform principal may submit envelopes; the signer inside
// the envelope is still whoever signed it.
type RelayHandler struct {
	dispatcher   Dispatcher
	platform     func() domain.Address
	platformOnly bool
	logger       *slog.Logger
}

func NewRelayHandler(dispatcher Dispatcher, platform func() domain.Address, platformOnly bool, logger *slog.Logger) *RelayHandler {
	return &RelayHandler{
		dispatcher:   dispatcher,
		platform:     platform,
		platformOnly: platformOnly,
		logger:       logger,
	}
}

func (h *RelayHandler) Register(r chi.Router) {
	r.Post("/relay/execute", h.handleExecute)
}

func (h *RelayHandler) handleExecute(w http.ResponseWriter, r *http.Request) {
	if h.platformOnly && requestcontext.Caller(r.Context()) != h.platform() {
		writeError(w, dErrors.New(dErrors.CodeUnauthorized, "relaying is restricted to the platform"))
		return
	}
	var env relay.Envelope
	if err := decodeBody(r, &env); err != nil {
		writeError(w, err)
		return
	}
	if err := h.dispatcher.Execute(r.Context(), env); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "executed",
		"action": env.Action.Name,
	})
}
