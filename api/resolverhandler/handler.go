// Package resolverhandler implements the gateway's resolution endpoint: the
// off-chain half of the protocol handshake that clients are pointed at by
// the resolver contract's structured failure.
package resolverhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Jayrodri088/offchain-resolution-gateway/api"
	"github.com/Jayrodri088/offchain-resolution-gateway/felt"
	"github.com/Jayrodri088/offchain-resolution-gateway/interfaces"
	"github.com/Jayrodri088/offchain-resolution-gateway/metrics"
)

// Handler processes HTTP attestation requests.
type Handler struct {
	attester interfaces.Attester
	log      *slog.Logger
}

// NewHandler creates a new HTTP request handler backed by the given attester.
func NewHandler(attester interfaces.Attester, log *slog.Logger) *Handler {
	return &Handler{
		attester: attester,
		log:      log,
	}
}

// RegisterRoutes configures the HTTP router with the resolution endpoint:
//   - GET /resolve?domain=<string>
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/resolve", h.HandleResolve)
}

// HandleResolve serves GET /resolve?domain=<string>.
//
// Status codes:
//   - 200 OK: JSON-encoded api.ResolveResponse
//   - 400 Bad Request: missing, malformed or out-of-zone domain
//   - 404 Not Found: no mapping exists; the body carries no signature fields
//   - 502 Bad Gateway: external data source unavailable, retryable
//   - 500 Internal Server Error: signing failure or data-integrity fault
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	domain := r.URL.Query().Get("domain")
	if domain == "" {
		h.writeError(w, http.StatusBadRequest, "missing domain parameter", "bad_domain")
		return
	}

	att, err := h.attester.ResolveDomain(r.Context(), domain)
	if err != nil {
		h.log.Info("Resolution failed", "domain", domain, "err", err)

		switch {
		case errors.Is(err, felt.ErrInvalidDomain):
			h.writeError(w, http.StatusBadRequest, err.Error(), "bad_domain")
		case errors.Is(err, interfaces.ErrDomainNotFound):
			h.writeError(w, http.StatusNotFound, "domain not found", "not_found")
		case errors.Is(err, interfaces.ErrUpstreamUnavailable):
			h.writeError(w, http.StatusBadGateway, "upstream data source unavailable", "upstream_error")
		case errors.Is(err, interfaces.ErrSigningFailure):
			h.writeError(w, http.StatusInternalServerError, "attestation signing failed", "signing_error")
		default:
			h.writeError(w, http.StatusInternalServerError, "internal error", "internal_error")
		}
		return
	}

	metrics.ResolveRequests.WithLabelValues("ok").Inc()
	metrics.ResolveDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(api.NewResolveResponse(att)); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

// writeError sends a structured JSON error body and records the outcome.
func (h *Handler) writeError(w http.ResponseWriter, status int, message, outcome string) {
	metrics.ResolveRequests.WithLabelValues(outcome).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.ErrorResponse{Error: message}); err != nil {
		h.log.Error("Failed to encode error response", "err", err)
	}
}
