package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tripsift/tripsift/internal/travel"
)

const defaultTTL = time.Hour

// Cache wraps a Redis client and memoizes historical weather samples keyed by
// (lat, lon, date). There is no invalidation beyond TTL expiry: the archive
// data is historical and does not change.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with a 1-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// key returns the Redis key for one (lat, lon, date) lookup. Coordinates are
// rounded to four decimals so nearby float noise hits the same entry.
func key(lat, lon float64, date string) string {
	return fmt.Sprintf("weather:%.4f:%.4f:%s", lat, lon, date)
}

// Get retrieves a cached weather sample. The found flag reports whether the
// key was present at all; a present key with a nil sample records a date the
// archive had no data for.
func (c *Cache) Get(ctx context.Context, lat, lon float64, date string) (*travel.WeatherSample, bool, error) {
	val, err := c.client.Get(ctx, key(lat, lon, date)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get for %s: %w", date, err)
	}

	var sample *travel.WeatherSample
	if err := json.Unmarshal([]byte(val), &sample); err != nil {
		return nil, false, fmt.Errorf("unmarshaling cached sample for %s: %w", date, err)
	}

	return sample, true, nil
}

// Set stores a weather sample with the configured TTL. A nil sample is stored
// as a JSON null so no-data dates are memoized like any other entry.
func (c *Cache) Set(ctx context.Context, lat, lon float64, date string, sample *travel.WeatherSample) error {
	b, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("marshaling sample for %s: %w", date, err)
	}

	if err := c.client.Set(ctx, key(lat, lon, date), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for %s: %w", date, err)
	}

	return nil
}

// Ensure Cache satisfies the memoization contract used by the history fetcher.
var _ travel.SampleCache = (*Cache)(nil)
