package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsift/tripsift/internal/cache"
	"github.com/tripsift/tripsift/internal/travel"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCache(client), mr
}

func sampleWeather() *travel.WeatherSample {
	return &travel.WeatherSample{
		Year:          2024,
		Date:          "2024-06-15",
		MaxTemp:       24.5,
		MinTemp:       14.0,
		Precipitation: 1.2,
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 48.8566, 2.3522, "2024-06-15", sampleWeather()))

	got, found, err := c.Get(ctx, 48.8566, 2.3522, "2024-06-15")
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, got)
	assert.Equal(t, 24.5, got.MaxTemp)
	assert.Equal(t, 1.2, got.Precipitation)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, found, err := c.Get(context.Background(), 0, 0, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, found, "cache miss should report not found")
	assert.Nil(t, got)
}

func TestCache_KeyedByArguments(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 48.8566, 2.3522, "2024-06-15", sampleWeather()))

	_, found, err := c.Get(ctx, 48.8566, 2.3522, "2023-06-16")
	require.NoError(t, err)
	assert.False(t, found, "different date is a different entry")

	_, found, err = c.Get(ctx, 41.3874, 2.1686, "2024-06-15")
	require.NoError(t, err)
	assert.False(t, found, "different coordinates are a different entry")
}

func TestCache_CoordinateRounding(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 48.85661, 2.35220, "2024-06-15", sampleWeather()))

	// Sub-4-decimal float noise hits the same entry.
	got, found, err := c.Get(ctx, 48.85659, 2.35221, "2024-06-15")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, got)
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 48.8566, 2.3522, "2024-06-15", sampleWeather()))

	mr.FastForward(2 * time.Hour)

	_, found, err := c.Get(ctx, 48.8566, 2.3522, "2024-06-15")
	require.NoError(t, err)
	assert.False(t, found, "entry should be expired after TTL")
}

func TestCache_NilSampleIsCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// A nil sample records a date the archive had no data for; it must be a
	// real entry, distinguishable from a miss, and expire like any other.
	require.NoError(t, c.Set(ctx, 0, 0, "2024-01-01", nil))

	got, found, err := c.Get(ctx, 0, 0, "2024-01-01")
	require.NoError(t, err)
	assert.True(t, found, "no-data entry should count as found")
	assert.Nil(t, got)

	mr.FastForward(2 * time.Hour)

	_, found, err = c.Get(ctx, 0, 0, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, found, "no-data entry should expire after TTL")
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}
