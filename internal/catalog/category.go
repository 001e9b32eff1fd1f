package catalog

import (
	"fmt"
	"sort"
)

// Category is one of the fixed set of activity filters.
type Category string

const (
	Tours       Category = "tours"
	Museums     Category = "museums"
	Restaurants Category = "restaurants"
	Wine        Category = "wine"
	Historical  Category = "historical"
	Sightseeing Category = "sightseeing"
)

// keywords maps each category to the substrings matched (case-insensitively)
// against an activity's name and description.
var keywords = map[Category][]string{
	Tours:       {"tour", "guide", "excursion", "trip"},
	Museums:     {"museum", "gallery", "exhibition"},
	Restaurants: {"restaurant", "food", "dinner", "lunch", "culinary"},
	Wine:        {"wine", "winery", "vineyard", "tasting"},
	Historical:  {"histor", "castle", "heritage", "monument", "ancient", "palace"},
	Sightseeing: {"sightseeing", "cruise", "landmark", "panoram", "view"},
}

// All returns every category in stable display order.
func All() []Category {
	return []Category{Tours, Museums, Restaurants, Wine, Historical, Sightseeing}
}

// Parse validates a category name.
func Parse(name string) (Category, error) {
	c := Category(name)
	if _, ok := keywords[c]; !ok {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// ParseSet validates a list of category names and returns them deduplicated
// in stable display order, keeping the active set a subset of the fixed
// enumeration.
func ParseSet(names []string) ([]Category, error) {
	seen := make(map[Category]bool, len(names))
	for _, n := range names {
		c, err := Parse(n)
		if err != nil {
			return nil, err
		}
		seen[c] = true
	}

	set := make([]Category, 0, len(seen))
	for c := range seen {
		set = append(set, c)
	}
	sortSet(set)
	return set, nil
}

// sortSet orders categories by their display order.
func sortSet(set []Category) {
	rank := make(map[Category]int, len(keywords))
	for i, c := range All() {
		rank[c] = i
	}
	sort.Slice(set, func(i, j int) bool { return rank[set[i]] < rank[set[j]] })
}
