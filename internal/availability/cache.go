package availability

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is the short-TTL display cache. Checkout never reads it: a stale
// entry at worst sends a guest at an already-taken slot into the atomic
// reserve, which rejects it.
//
// Entries hash on (resource, date) with one field per requested duration,
// so a reservation invalidates the whole day with a single DEL.
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache wraps a redis client with the display-cache TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		panic("availability: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &Cache{redis: client, ttl: ttl}
}

// Get returns the cached slots for (resource, date, duration) and whether
// the lookup hit. Errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, resourceID uuid.UUID, date time.Time, duration time.Duration) ([]Slot, bool, error) {
	data, err := c.redis.HGet(ctx, cacheKey(resourceID, date), durationField(duration)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("availability: cache read failed: %w", err)
	}

	var slots []Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, false, fmt.Errorf("availability: cache decode failed: %w", err)
	}
	return slots, true, nil
}

// Put stores the computed slots for the TTL window. An empty day is cached
// too; "no slots" is a valid, repeatable answer.
func (c *Cache) Put(ctx context.Context, resourceID uuid.UUID, date time.Time, duration time.Duration, slots []Slot) error {
	if slots == nil {
		slots = []Slot{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("availability: cache encode failed: %w", err)
	}

	key := cacheKey(resourceID, date)
	pipe := c.redis.TxPipeline()
	pipe.HSet(ctx, key, durationField(duration), data)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("availability: cache write failed: %w", err)
	}
	return nil
}

// Invalidate drops every cached duration for the resource's date. Called
// after a successful reserve or cancellation.
func (c *Cache) Invalidate(ctx context.Context, resourceID uuid.UUID, date time.Time) error {
	if err := c.redis.Del(ctx, cacheKey(resourceID, date)).Err(); err != nil {
		return fmt.Errorf("availability: cache invalidate failed: %w", err)
	}
	return nil
}

func cacheKey(resourceID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("availability:%s:%s", resourceID, date.Format("2006-01-02"))
}

func durationField(d time.Duration) string {
	return strconv.Itoa(int(d / time.Minute))
}
