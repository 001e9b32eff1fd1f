package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables.
type Config struct {
	ClientID     string
	ClientSecret string
	RedisURL     string
	Port         string
}

// Load reads an optional .env file and returns a populated Config. The
// catalogue client credentials and redis URL are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		ClientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		RedisURL:     os.Getenv("REDIS_URL"),
		Port:         getEnv("PORT", "8080"),
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET must be set")
	}
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL must be set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
