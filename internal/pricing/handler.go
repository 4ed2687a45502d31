package pricing

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/booking-platform/pkg/logging"
)

// Handler handles HTTP requests for price resolution previews
type Handler struct {
	service *Service
	logger  *logging.Logger
	now     func() time.Time
}

// NewHandler creates a new pricing handler. now is injected so tests can pin
// the clock; pass nil for time.Now.
func NewHandler(service *Service, logger *logging.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{service: service, logger: logger, now: now}
}

// ResolveRequest is the request body for POST /pricing/resolve
type ResolveRequest struct {
	BasePrice      float64    `json:"base_price"`
	BusinessID     uuid.UUID  `json:"business_id"`
	BookableTypeID *uuid.UUID `json:"bookable_type_id,omitempty"`
	PackageID      *uuid.UUID `json:"package_id,omitempty"`
	At             *time.Time `json:"at,omitempty"`
}

// Resolve handles POST /pricing/resolve requests
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.BusinessID == uuid.Nil {
		http.Error(w, "business_id is required", http.StatusBadRequest)
		return
	}
	if req.BasePrice < 0 {
		http.Error(w, "base_price must not be negative", http.StatusBadRequest)
		return
	}

	at := h.now()
	if req.At != nil {
		at = *req.At
	}

	scope := Scope{
		BusinessID:     req.BusinessID,
		BookableTypeID: req.BookableTypeID,
		PackageID:      req.PackageID,
	}
	quote, err := h.service.ResolveForScope(r.Context(), req.BasePrice, scope, at)
	if err != nil {
		switch {
		case errors.Is(err, ErrBusinessNotFound):
			http.Error(w, "business not found", http.StatusNotFound)
		case errors.Is(err, ErrUnknownModifier):
			h.logger.Error("pricing rule misconfigured", "error", err, "business_id", req.BusinessID)
			http.Error(w, "pricing rules misconfigured", http.StatusInternalServerError)
		default:
			h.logger.Error("failed to resolve price", "error", err, "business_id", req.BusinessID)
			http.Error(w, "failed to resolve price", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(quote)
}
