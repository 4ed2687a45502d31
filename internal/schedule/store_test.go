package schedule

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func pgTime(hour, minute int) pgtype.Time {
	return pgtype.Time{
		Microseconds: int64(hour*3600+minute*60) * 1_000_000,
		Valid:        true,
	}
}

func TestGetForWeekday(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newStoreWithDB(mock)

	resourceID := uuid.New()
	rows := pgxmock.NewRows([]string{"id", "resource_id", "day_of_week", "start_time", "end_time", "is_active"}).
		AddRow(uuid.New(), resourceID, 1, pgTime(9, 0), pgTime(17, 30), true)
	mock.ExpectQuery("SELECT id, resource_id").WithArgs(resourceID, 1).WillReturnRows(rows)

	entry, err := store.GetForWeekday(context.Background(), resourceID, 1)
	if err != nil {
		t.Fatalf("GetForWeekday failed: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an entry")
	}
	if entry.StartMinute != 9*60 || entry.EndMinute != 17*60+30 {
		t.Fatalf("unexpected window minutes: %d-%d", entry.StartMinute, entry.EndMinute)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetForWeekdayMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newStoreWithDB(mock)

	resourceID := uuid.New()
	mock.ExpectQuery("SELECT id, resource_id").WithArgs(resourceID, 6).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	entry, err := store.GetForWeekday(context.Background(), resourceID, 6)
	if err != nil {
		t.Fatalf("GetForWeekday failed: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry for missing row, got %+v", entry)
	}
}
