package catalog

import (
	"math"

	"github.com/tripsift/tripsift/internal/travel"
)

// Classification summarizes historical same-date weather.
// AvgTemp is NaN when no samples were available; callers must treat that as
// unknown rather than a usable number.
type Classification struct {
	RainExpected bool
	AvgTemp      float64
}

// Known reports whether the classification is backed by any samples.
func (c Classification) Known() bool {
	return !math.IsNaN(c.AvgTemp)
}

// Classify computes the rain flag and mean temperature over the available
// samples. Rain is expected iff at least two samples recorded precipitation
// strictly greater than zero. The mean is taken over each sample's midpoint
// (max+min)/2.
func Classify(samples []travel.WeatherSample) Classification {
	if len(samples) == 0 {
		return Classification{AvgTemp: math.NaN()}
	}

	wet := 0
	sum := 0.0
	for _, s := range samples {
		if s.Precipitation > 0 {
			wet++
		}
		sum += (s.MaxTemp + s.MinTemp) / 2
	}

	return Classification{
		RainExpected: wet >= 2,
		AvgTemp:      sum / float64(len(samples)),
	}
}

// coldThreshold splits the dry presets: below it the indoor-leaning set is
// suggested, at or above it the outdoor one.
const coldThreshold = 15.0

// PresetCategories maps a classification to a suggested category set.
// Applying it overwrites the user's active selection.
func PresetCategories(rainExpected bool, avgTemp float64) []Category {
	switch {
	case rainExpected:
		return []Category{Museums, Restaurants, Historical, Sightseeing}
	case avgTemp < coldThreshold:
		return []Category{Museums, Historical, Tours, Sightseeing}
	default:
		return []Category{Wine, Historical}
	}
}

// PresetRules is the help text shown alongside the weather preset control.
const PresetRules = "Rain expected in at least two of the last three years: museums, restaurants, historical, sightseeing. " +
	"Dry and below 15°C on average: museums, historical, tours, sightseeing. " +
	"Dry and 15°C or warmer: wine, historical."
