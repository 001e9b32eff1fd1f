package travel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// anniversaryYears is how many historical same-date years are fetched.
const anniversaryYears = 3

// weatherFetcher is the interface satisfied by WeatherClient.
type weatherFetcher interface {
	Fetch(ctx context.Context, lat, lon float64, date time.Time) (*WeatherSample, error)
}

// SampleCache memoizes weather samples keyed by (lat, lon, date). A nil
// sample is a valid entry recording that the archive has no data for the
// date, so Get reports a found flag to distinguish that from a miss.
type SampleCache interface {
	Get(ctx context.Context, lat, lon float64, date string) (sample *WeatherSample, found bool, err error)
	Set(ctx context.Context, lat, lon float64, date string, sample *WeatherSample) error
}

// History fetches the historical same-date weather for the years preceding a
// reference date. Fetches run in parallel; a year that fails or has no data
// is omitted from the result rather than treated as an error.
type History struct {
	weather weatherFetcher
	cache   SampleCache
}

// NewHistory constructs a History over the production weather archive.
// cache may be nil to disable memoization.
func NewHistory(cache SampleCache) *History {
	return &History{weather: NewWeatherClient(), cache: cache}
}

// NewHistoryWithClient constructs a History with an injectable weather client
// (used in tests).
func NewHistoryWithClient(w weatherFetcher, cache SampleCache) *History {
	return &History{weather: w, cache: cache}
}

// AnniversaryDates returns the dates exactly 365, 730, and 1095 days before
// the reference date. The computation is deliberately not calendar-year
// aware, so leap years shift the calendar date by one day.
func AnniversaryDates(reference time.Time) []time.Time {
	dates := make([]time.Time, 0, anniversaryYears)
	for i := 1; i <= anniversaryYears; i++ {
		dates = append(dates, reference.AddDate(0, 0, -365*i))
	}
	return dates
}

// Fetch returns the available samples for the three anniversary dates
// preceding reference at the given coordinates, most recent year first.
// Years with no data are dropped, never zero-filled.
func (h *History) Fetch(ctx context.Context, lat, lon float64, reference time.Time) ([]WeatherSample, error) {
	dates := AnniversaryDates(reference)
	slots := make([]*WeatherSample, len(dates))

	g, gCtx := errgroup.WithContext(ctx)
	for i, date := range dates {
		i, date := i, date
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("weather fetch panicked", "recover", r)
					err = fmt.Errorf("weather fetch panicked: %v", r)
				}
			}()
			slots[i] = h.fetchOne(gCtx, lat, lon, date)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetching weather history: %w", err)
	}

	samples := make([]WeatherSample, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			samples = append(samples, *s)
		}
	}

	return samples, nil
}

// fetchOne resolves a single date, consulting the cache first. Any failure is
// logged and reported as a missing year.
func (h *History) fetchOne(ctx context.Context, lat, lon float64, date time.Time) *WeatherSample {
	day := date.Format("2006-01-02")

	if h.cache != nil {
		cached, found, err := h.cache.Get(ctx, lat, lon, day)
		if err != nil {
			slog.Warn("weather cache get failed", "date", day, "err", err)
		} else if found {
			return cached
		}
	}

	sample, err := h.weather.Fetch(ctx, lat, lon, date)
	if err != nil {
		slog.Warn("weather fetch failed", "date", day, "err", err)
		return nil
	}

	// A nil sample (no archive data for the date) is memoized too, so a day
	// with no data does not re-hit the archive on every interaction.
	if h.cache != nil {
		if err := h.cache.Set(ctx, lat, lon, day, sample); err != nil {
			slog.Warn("weather cache set failed", "date", day, "err", err)
		}
	}

	return sample
}
