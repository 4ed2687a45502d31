package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/slotwise/booking-platform/internal/resources"
	"github.com/slotwise/booking-platform/internal/schedule"
	"github.com/slotwise/booking-platform/internal/settings"
	"github.com/slotwise/booking-platform/pkg/logging"
)

// Handler serves availability reads.
type Handler struct {
	service *Service
	logger  *logging.Logger
	loc     *time.Location
}

// NewHandler creates the availability handler. loc is the platform's fixed
// local zone for wall-clock parsing; pass nil for time.Local.
func NewHandler(service *Service, logger *logging.Logger, loc *time.Location) *Handler {
	if service == nil {
		panic("availability: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, logger: logger, loc: loc}
}

// SlotResponse is one bookable interval as shown to a guest. Times are the
// resource's wall-clock local zone in RFC 3339 form without offset math.
type SlotResponse struct {
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	BasePrice    float64   `json:"base_price"`
}

type availabilityResponse struct {
	Date  string         `json:"date,omitempty"`
	Slots []SlotResponse `json:"slots"`
}

// ForDate handles GET /availability?date&duration_minutes with exactly one
// of resource_id or business_id. A business id runs every active resource
// through the per-resource path and merges the slots in start order.
// party_size is accepted and ignored; capacity modeling belongs to the
// surrounding system.
func (h *Handler) ForDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawResource := q.Get("resource_id")
	rawBusiness := q.Get("business_id")
	if (rawResource == "") == (rawBusiness == "") {
		http.Error(w, "exactly one of resource_id or business_id is required", http.StatusBadRequest)
		return
	}
	date, err := time.ParseInLocation("2006-01-02", q.Get("date"), h.loc)
	if err != nil {
		h.writeError(w, ErrInvalidDate, uuid.Nil)
		return
	}
	duration, ok := parseDurationMinutes(q.Get("duration_minutes"))
	if !ok {
		http.Error(w, "duration_minutes must be a positive integer", http.StatusBadRequest)
		return
	}

	if rawBusiness != "" {
		businessID, err := uuid.Parse(rawBusiness)
		if err != nil {
			http.Error(w, "business_id must be a valid UUID", http.StatusBadRequest)
			return
		}
		results, err := h.service.ForDateByBusiness(r.Context(), businessID, date, duration)
		if err != nil {
			h.writeError(w, err, businessID)
			return
		}
		h.writeResults(w, date, results)
		return
	}

	resourceID, err := uuid.Parse(rawResource)
	if err != nil {
		http.Error(w, "resource_id must be a valid UUID", http.StatusBadRequest)
		return
	}
	result, err := h.service.ForDate(r.Context(), resourceID, date, duration)
	if err != nil {
		h.writeError(w, err, resourceID)
		return
	}
	h.writeResult(w, result)
}

// FindSoonest handles GET /availability/soonest?resource_id&duration_minutes&max_days.
func (h *Handler) FindSoonest(w http.ResponseWriter, r *http.Request) {
	resourceID, err := uuid.Parse(r.URL.Query().Get("resource_id"))
	if err != nil {
		http.Error(w, "resource_id is required", http.StatusBadRequest)
		return
	}
	duration, ok := parseDurationMinutes(r.URL.Query().Get("duration_minutes"))
	if !ok {
		http.Error(w, "duration_minutes must be a positive integer", http.StatusBadRequest)
		return
	}
	maxDays := 0
	if raw := r.URL.Query().Get("max_days"); raw != "" {
		maxDays, err = strconv.Atoi(raw)
		if err != nil || maxDays <= 0 {
			http.Error(w, "max_days must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	result, err := h.service.FindSoonest(r.Context(), resourceID, duration, maxDays)
	if err != nil {
		h.writeError(w, err, resourceID)
		return
	}
	h.writeResult(w, result)
}

func (h *Handler) writeResult(w http.ResponseWriter, result *Result) {
	resp := availabilityResponse{Slots: make([]SlotResponse, 0, len(result.Slots))}
	if len(result.Slots) > 0 {
		resp.Date = result.Date.Format("2006-01-02")
	}
	for _, s := range result.Slots {
		resp.Slots = append(resp.Slots, slotResponse(result.Resource, s))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) writeResults(w http.ResponseWriter, date time.Time, results []*Result) {
	resp := availabilityResponse{Slots: make([]SlotResponse, 0)}
	for _, result := range results {
		for _, s := range result.Slots {
			resp.Slots = append(resp.Slots, slotResponse(result.Resource, s))
		}
	}
	// The wall-clock layout sorts lexicographically in time order.
	sort.Slice(resp.Slots, func(i, j int) bool {
		if resp.Slots[i].StartTime != resp.Slots[j].StartTime {
			return resp.Slots[i].StartTime < resp.Slots[j].StartTime
		}
		return resp.Slots[i].ResourceName < resp.Slots[j].ResourceName
	})
	if len(resp.Slots) > 0 {
		resp.Date = date.Format("2006-01-02")
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func slotResponse(resource *resources.Resource, s PricedSlot) SlotResponse {
	return SlotResponse{
		StartTime:    s.Start.Format("2006-01-02T15:04:05"),
		EndTime:      s.End.Format("2006-01-02T15:04:05"),
		ResourceID:   resource.ID,
		ResourceName: resource.Name,
		BasePrice:    s.Price,
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error, resourceID uuid.UUID) {
	switch {
	case errors.Is(err, resources.ErrResourceNotFound):
		http.Error(w, "resource not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidDuration):
		http.Error(w, "duration must be positive", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidDate):
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
	case errors.Is(err, schedule.ErrMalformedRow),
		errors.Is(err, settings.ErrInvalidIncrement),
		errors.Is(err, settings.ErrInvalidSettings):
		h.logger.Error("resource misconfigured", "error", err, "resource_id", resourceID)
		http.Error(w, "resource schedule misconfigured", http.StatusInternalServerError)
	default:
		h.logger.Error("failed to compute availability", "error", err, "resource_id", resourceID)
		http.Error(w, "failed to compute availability", http.StatusInternalServerError)
	}
}

func parseDurationMinutes(raw string) (time.Duration, bool) {
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0, false
	}
	return time.Duration(minutes) * time.Minute, true
}
