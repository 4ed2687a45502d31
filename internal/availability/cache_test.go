package availability

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, 15*time.Second), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	resourceID := uuid.New()

	slots := []Slot{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(9, 30), End: at(10, 30)},
	}
	if err := cache.Put(ctx, resourceID, testDay, time.Hour, slots); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, hit, err := cache.Get(ctx, resourceID, testDay, time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 2 || !got[0].Start.Equal(at(9, 0)) || !got[1].End.Equal(at(10, 30)) {
		t.Errorf("cached slots = %v, want %v", got, slots)
	}
}

func TestCacheMissOnOtherDuration(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	resourceID := uuid.New()

	if err := cache.Put(ctx, resourceID, testDay, time.Hour, []Slot{{Start: at(9, 0), End: at(10, 0)}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	_, hit, err := cache.Get(ctx, resourceID, testDay, 90*time.Minute)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit {
		t.Error("different duration should miss")
	}
	_, hit, err = cache.Get(ctx, uuid.New(), testDay, time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit {
		t.Error("different resource should miss")
	}
}

func TestCacheEmptyDayIsAHit(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	resourceID := uuid.New()

	if err := cache.Put(ctx, resourceID, testDay, time.Hour, nil); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, hit, err := cache.Get(ctx, resourceID, testDay, time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatal("an empty day should still be cached")
	}
	if len(got) != 0 {
		t.Errorf("expected no slots, got %v", got)
	}
}

func TestCacheInvalidateDropsAllDurations(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	resourceID := uuid.New()

	if err := cache.Put(ctx, resourceID, testDay, time.Hour, []Slot{{Start: at(9, 0), End: at(10, 0)}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := cache.Put(ctx, resourceID, testDay, 30*time.Minute, []Slot{{Start: at(9, 0), End: at(9, 30)}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := cache.Invalidate(ctx, resourceID, testDay); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	for _, d := range []time.Duration{time.Hour, 30 * time.Minute} {
		_, hit, err := cache.Get(ctx, resourceID, testDay, d)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if hit {
			t.Errorf("duration %s should be gone after invalidation", d)
		}
	}
}

func TestCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	resourceID := uuid.New()

	if err := cache.Put(ctx, resourceID, testDay, time.Hour, []Slot{{Start: at(9, 0), End: at(10, 0)}}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(16 * time.Second)

	_, hit, err := cache.Get(ctx, resourceID, testDay, time.Hour)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit {
		t.Error("entry should expire after the TTL")
	}
}
