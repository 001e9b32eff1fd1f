package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsift/tripsift/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("AMADEUS_CLIENT_ID", "id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
	assert.Equal(t, "secret", cfg.ClientSecret)
	assert.Equal(t, "8080", cfg.Port, "default port")
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("AMADEUS_CLIENT_ID", "")
	t.Setenv("AMADEUS_CLIENT_SECRET", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_MissingRedis(t *testing.T) {
	t.Setenv("AMADEUS_CLIENT_ID", "id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "secret")
	t.Setenv("REDIS_URL", "")

	_, err := config.Load()
	require.Error(t, err)
}
