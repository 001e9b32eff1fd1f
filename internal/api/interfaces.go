package api

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tripsift/tripsift/internal/session"
	"github.com/tripsift/tripsift/internal/travel"
)

// CitySearcher defines the city lookup needed by handlers.
type CitySearcher interface {
	Search(ctx context.Context, keyword string) ([]travel.CityCandidate, error)
}

// ActivityFinder defines the catalogue fetch needed by handlers.
type ActivityFinder interface {
	Fetch(ctx context.Context, lat, lon float64, radius int) ([]travel.Activity, error)
}

// WeatherHistorian defines the historical weather fetch needed by handlers.
type WeatherHistorian interface {
	Fetch(ctx context.Context, lat, lon float64, reference time.Time) ([]travel.WeatherSample, error)
}

// SessionStore defines the session registry needed by handlers.
type SessionStore interface {
	New() *session.Session
	Get(id uuid.UUID) (*session.Session, bool)
	Delete(id uuid.UUID)
}
