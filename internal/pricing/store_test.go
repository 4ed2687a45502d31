package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func TestListActiveForBusiness(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newStoreWithDB(mock)

	bizID := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").WithArgs(bizID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	rows := pgxmock.NewRows([]string{
		"id", "business_id", "bookable_type_id", "package_id", "rule_type",
		"modifier_type", "modifier_value", "priority", "valid_from", "valid_until", "is_active",
	}).AddRow(uuid.New(), bizID, (*uuid.UUID)(nil), (*uuid.UUID)(nil), "seasonal",
		ModifierPercentage, 10.0, 10, nil, nil, true)
	mock.ExpectQuery("SELECT id, business_id").WithArgs(bizID).WillReturnRows(rows)

	rules, err := store.ListActiveForBusiness(context.Background(), bizID)
	if err != nil {
		t.Fatalf("ListActiveForBusiness failed: %v", err)
	}
	if len(rules) != 1 || rules[0].ModifierType != ModifierPercentage {
		t.Fatalf("unexpected rules: %+v", rules)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListActiveForBusinessUnknownBusiness(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newStoreWithDB(mock)

	bizID := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").WithArgs(bizID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = store.ListActiveForBusiness(context.Background(), bizID)
	if !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}
