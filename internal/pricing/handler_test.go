package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotwise/booking-platform/pkg/logging"
)

type stubRuleSource struct {
	rules []Rule
	err   error
}

func (s *stubRuleSource) ListActiveForBusiness(_ context.Context, _ uuid.UUID) ([]Rule, error) {
	return s.rules, s.err
}

func fixedNow() time.Time {
	return time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
}

func TestResolveHandler(t *testing.T) {
	source := &stubRuleSource{rules: []Rule{
		{ID: uuid.New(), ModifierType: ModifierPercentage, ModifierValue: 10, Priority: 10, IsActive: true},
		{ID: uuid.New(), ModifierType: ModifierFixedAmount, ModifierValue: 5, Priority: 20, IsActive: true},
	}}
	handler := NewHandler(NewService(source, logging.Default(), nil), logging.Default(), fixedNow)

	body, _ := json.Marshal(ResolveRequest{BasePrice: 100, BusinessID: uuid.New()})
	req := httptest.NewRequest(http.MethodPost, "/pricing/resolve", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var quote Quote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	assert.Equal(t, 115.00, quote.FinalPrice)
	assert.Len(t, quote.Applied, 2)
	assert.Equal(t, fixedNow(), quote.ResolvedAt.UTC())
}

func TestResolveHandlerValidation(t *testing.T) {
	handler := NewHandler(NewService(&stubRuleSource{}, nil, nil), logging.Default(), fixedNow)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"garbage body", "{", http.StatusBadRequest},
		{"missing business", `{"base_price": 100}`, http.StatusBadRequest},
		{"negative base price", fmt.Sprintf(`{"base_price": -1, "business_id": %q}`, uuid.New()), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/pricing/resolve", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			handler.Resolve(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestResolveHandlerUnknownBusiness(t *testing.T) {
	handler := NewHandler(NewService(&stubRuleSource{err: ErrBusinessNotFound}, nil, nil), logging.Default(), fixedNow)

	body, _ := json.Marshal(ResolveRequest{BasePrice: 100, BusinessID: uuid.New()})
	req := httptest.NewRequest(http.MethodPost, "/pricing/resolve", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveHandlerPinsExplicitAt(t *testing.T) {
	valid := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	rule := Rule{ID: uuid.New(), ModifierType: ModifierFixedAmount, ModifierValue: 50, Priority: 10, IsActive: true, ValidFrom: &valid}
	handler := NewHandler(NewService(&stubRuleSource{rules: []Rule{rule}}, nil, nil), logging.Default(), fixedNow)

	at := valid.Add(time.Hour)
	body, _ := json.Marshal(ResolveRequest{BasePrice: 100, BusinessID: uuid.New(), At: &at})
	req := httptest.NewRequest(http.MethodPost, "/pricing/resolve", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Resolve(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var quote Quote
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&quote))
	assert.Equal(t, 150.00, quote.FinalPrice, "rule valid only in December must apply at the requested instant")
}
