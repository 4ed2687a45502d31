package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/slotwise/booking-platform/internal/bookings"
	"github.com/slotwise/booking-platform/internal/resources"
	"github.com/slotwise/booking-platform/internal/schedule"
	"github.com/slotwise/booking-platform/internal/settings"
	"github.com/slotwise/booking-platform/pkg/logging"
)

// Handler serves the booking endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
	loc     *time.Location
}

// NewHandler creates the checkout handler. loc is the platform's fixed
// local zone for wall-clock parsing; pass nil for time.Local.
func NewHandler(service *Service, logger *logging.Logger, loc *time.Location) *Handler {
	if service == nil {
		panic("checkout: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, logger: logger, loc: loc}
}

// wall-clock local times, with or without an explicit offset
var timeLayouts = []string{"2006-01-02T15:04:05", time.RFC3339}

// CreateRequest is the request body for POST /bookings.
type CreateRequest struct {
	ResourceID  uuid.UUID `json:"resource_id"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	QuotedPrice *float64  `json:"quoted_price,omitempty"`
}

type priceChangedResponse struct {
	Error        string  `json:"error"`
	QuotedPrice  float64 `json:"quoted_price"`
	CurrentPrice float64 `json:"current_price"`
}

// Create handles POST /bookings.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	start, ok := h.parseLocalTime(req.StartTime)
	if !ok {
		http.Error(w, "start_time must be an ISO 8601 timestamp", http.StatusBadRequest)
		return
	}
	end, ok := h.parseLocalTime(req.EndTime)
	if !ok {
		http.Error(w, "end_time must be an ISO 8601 timestamp", http.StatusBadRequest)
		return
	}

	booking, err := h.service.Place(r.Context(), PlaceParams{
		ResourceID:  req.ResourceID,
		Start:       start,
		End:         end,
		QuotedPrice: req.QuotedPrice,
	})
	if err != nil {
		h.writeError(w, err, req.ResourceID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// Cancel handles POST /bookings/{id}/cancel.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid booking id", http.StatusBadRequest)
		return
	}

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		if errors.Is(err, bookings.ErrBookingNotFound) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to cancel booking", "error", err, "booking_id", id)
		http.Error(w, "failed to cancel booking", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(booking)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, resourceID uuid.UUID) {
	var priceChanged *PriceChangedError
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrOutsideWindow):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, resources.ErrResourceNotFound):
		http.Error(w, "resource not found", http.StatusNotFound)
	case errors.As(err, &priceChanged):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(priceChangedResponse{
			Error:        "price_changed",
			QuotedPrice:  priceChanged.QuotedPrice,
			CurrentPrice: priceChanged.CurrentPrice,
		})
	case errors.Is(err, bookings.ErrSlotUnavailable):
		http.Error(w, "slot unavailable", http.StatusConflict)
	case errors.Is(err, schedule.ErrMalformedRow),
		errors.Is(err, settings.ErrInvalidIncrement),
		errors.Is(err, settings.ErrInvalidSettings):
		h.logger.Error("resource misconfigured", "error", err, "resource_id", resourceID)
		http.Error(w, "resource schedule misconfigured", http.StatusInternalServerError)
	default:
		h.logger.Error("failed to place booking", "error", err, "resource_id", resourceID)
		http.Error(w, "failed to place booking", http.StatusInternalServerError)
	}
}

func (h *Handler) parseLocalTime(raw string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, raw, h.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
