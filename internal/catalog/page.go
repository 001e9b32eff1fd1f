package catalog

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/tripsift/tripsift/internal/travel"
)

// SortOption selects the ordering of filtered activities.
type SortOption string

const (
	SortNone       SortOption = "none"
	SortRatingAsc  SortOption = "rating_asc"
	SortRatingDesc SortOption = "rating_desc"
	SortPriceAsc   SortOption = "price_asc"
	SortPriceDesc  SortOption = "price_desc"
)

// ParseSort validates a sort option name.
func ParseSort(name string) (SortOption, bool) {
	switch SortOption(name) {
	case SortNone, SortRatingAsc, SortRatingDesc, SortPriceAsc, SortPriceDesc:
		return SortOption(name), true
	}
	return "", false
}

// Page is one rendered page of the filtered-and-sorted activity list.
type Page struct {
	Items      []travel.Activity `json:"items"`
	TotalCount int               `json:"total_count"`
	MaxPage    int               `json:"max_page"`
	Number     int               `json:"page"`
}

// Render filters activities by the active category set, sorts them, and
// slices out one page. Pure function of its inputs: the requested page number
// is clamped into [1, maxPage] and the effective number is returned so the
// caller can re-clamp its own state.
func Render(activities []travel.Activity, active []Category, sortBy SortOption, pageSize, page int) Page {
	filtered := filter(activities, active)
	sortActivities(filtered, sortBy)

	if pageSize < 1 {
		pageSize = 1
	}

	maxPage := (len(filtered) + pageSize - 1) / pageSize
	if maxPage < 1 {
		maxPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page{
		Items:      filtered[start:end],
		TotalCount: len(filtered),
		MaxPage:    maxPage,
		Number:     page,
	}
}

// filter keeps activities matching at least one keyword from the union over
// the active categories. An empty category set passes everything.
func filter(activities []travel.Activity, active []Category) []travel.Activity {
	if len(active) == 0 {
		return append([]travel.Activity(nil), activities...)
	}

	var union []string
	for _, c := range active {
		union = append(union, keywords[c]...)
	}

	matched := make([]travel.Activity, 0, len(activities))
	for _, a := range activities {
		text := strings.ToLower(a.Name + " " + a.Description)
		for _, kw := range union {
			if strings.Contains(text, kw) {
				matched = append(matched, a)
				break
			}
		}
	}

	return matched
}

// sortActivities orders the slice in place, stably with respect to the
// original order for equal keys. Missing ratings sort as the lowest possible
// value; missing or unparseable prices always sort last.
func sortActivities(activities []travel.Activity, sortBy SortOption) {
	switch sortBy {
	case SortRatingAsc:
		sort.SliceStable(activities, func(i, j int) bool {
			return ratingKey(activities[i]) < ratingKey(activities[j])
		})
	case SortRatingDesc:
		sort.SliceStable(activities, func(i, j int) bool {
			return ratingKey(activities[i]) > ratingKey(activities[j])
		})
	case SortPriceAsc:
		sort.SliceStable(activities, func(i, j int) bool {
			vi, iok := priceKey(activities[i])
			vj, jok := priceKey(activities[j])
			if iok != jok {
				return iok
			}
			return vi < vj
		})
	case SortPriceDesc:
		sort.SliceStable(activities, func(i, j int) bool {
			vi, iok := priceKey(activities[i])
			vj, jok := priceKey(activities[j])
			if iok != jok {
				return iok
			}
			return vi > vj
		})
	}
}

// ratingKey returns the sort key for rating ordering; absent ratings map to
// the lowest possible value so they sort first ascending and last descending,
// below any numeric rating.
func ratingKey(a travel.Activity) float64 {
	if a.Rating == nil {
		return math.Inf(-1)
	}
	return *a.Rating
}

// priceKey parses the price amount; ok is false for absent or unparseable
// amounts.
func priceKey(a travel.Activity) (float64, bool) {
	if a.Price == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(a.Price.Amount, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
