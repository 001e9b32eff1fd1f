package catalog_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsift/tripsift/internal/catalog"
	"github.com/tripsift/tripsift/internal/travel"
)

func rated(name string, rating float64) travel.Activity {
	return travel.Activity{Name: name, Rating: &rating}
}

func priced(name, amount string) travel.Activity {
	return travel.Activity{Name: name, Price: &travel.Price{Amount: amount, Currency: "EUR"}}
}

func TestRender_EmptyCategorySetPassesAll(t *testing.T) {
	activities := []travel.Activity{
		{Name: "Wine tasting"},
		{Name: "Kayak rental"},
	}

	page := catalog.Render(activities, nil, catalog.SortNone, 10, 1)
	assert.Equal(t, 2, page.TotalCount)
}

func TestRender_FilterMembership(t *testing.T) {
	activity := travel.Activity{Name: "Day out", Description: "Guided castle tour"}

	hit := func(c catalog.Category) bool {
		page := catalog.Render([]travel.Activity{activity}, []catalog.Category{c}, catalog.SortNone, 10, 1)
		return page.TotalCount == 1
	}

	assert.True(t, hit(catalog.Historical), "castle matches historical")
	assert.True(t, hit(catalog.Tours), "tour matches tours")
	assert.False(t, hit(catalog.Wine))
}

func TestRender_FilterIsCaseInsensitiveUnion(t *testing.T) {
	activities := []travel.Activity{
		{Name: "LOUVRE MUSEUM visit"},
		{Name: "Seine dinner CRUISE"},
		{Name: "Escape room"},
	}

	page := catalog.Render(activities, []catalog.Category{catalog.Museums, catalog.Sightseeing}, catalog.SortNone, 10, 1)
	require.Equal(t, 2, page.TotalCount)
	assert.Equal(t, "LOUVRE MUSEUM visit", page.Items[0].Name)
	assert.Equal(t, "Seine dinner CRUISE", page.Items[1].Name)
}

func TestRender_RatingDesc_MissingSortsLast(t *testing.T) {
	activities := []travel.Activity{
		{Name: "unrated"},
		rated("four", 4),
		rated("negative", -5),
		rated("two", 2),
	}

	page := catalog.Render(activities, nil, catalog.SortRatingDesc, 10, 1)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "four", page.Items[0].Name)
	assert.Equal(t, "two", page.Items[1].Name)
	assert.Equal(t, "negative", page.Items[2].Name)
	assert.Equal(t, "unrated", page.Items[3].Name, "missing rating sorts below any numeric rating")
}

func TestRender_RatingAsc_MissingSortsFirst(t *testing.T) {
	activities := []travel.Activity{
		rated("four", 4),
		{Name: "unrated"},
		rated("negative", -5),
		rated("two", 2),
	}

	page := catalog.Render(activities, nil, catalog.SortRatingAsc, 10, 1)
	require.Len(t, page.Items, 4)
	assert.Equal(t, "unrated", page.Items[0].Name, "missing rating sorts before any numeric rating")
	assert.Equal(t, "negative", page.Items[1].Name)
	assert.Equal(t, "two", page.Items[2].Name)
	assert.Equal(t, "four", page.Items[3].Name)
}

func TestRender_PriceSort_MissingAlwaysLast(t *testing.T) {
	activities := []travel.Activity{
		{Name: "no price"},
		priced("cheap", "10.00"),
		priced("broken", "n/a"),
		priced("dear", "99.50"),
	}

	asc := catalog.Render(activities, nil, catalog.SortPriceAsc, 10, 1)
	require.Len(t, asc.Items, 4)
	assert.Equal(t, "cheap", asc.Items[0].Name)
	assert.Equal(t, "dear", asc.Items[1].Name)
	assert.Equal(t, "no price", asc.Items[2].Name)
	assert.Equal(t, "broken", asc.Items[3].Name)

	desc := catalog.Render(activities, nil, catalog.SortPriceDesc, 10, 1)
	require.Len(t, desc.Items, 4)
	assert.Equal(t, "dear", desc.Items[0].Name)
	assert.Equal(t, "cheap", desc.Items[1].Name)
	assert.Equal(t, "no price", desc.Items[2].Name, "unpriced entries stay at the end even descending")
	assert.Equal(t, "broken", desc.Items[3].Name)
}

func TestRender_SortIsStable(t *testing.T) {
	activities := []travel.Activity{
		rated("first", 3),
		rated("second", 3),
		rated("third", 3),
	}

	page := catalog.Render(activities, nil, catalog.SortRatingDesc, 10, 1)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "first", page.Items[0].Name)
	assert.Equal(t, "second", page.Items[1].Name)
	assert.Equal(t, "third", page.Items[2].Name)
}

func TestRender_SortDoesNotMutateInput(t *testing.T) {
	activities := []travel.Activity{
		rated("b", 1),
		rated("a", 5),
	}

	_ = catalog.Render(activities, nil, catalog.SortRatingDesc, 10, 1)
	assert.Equal(t, "b", activities[0].Name, "caller's slice must stay in original order")
}

func TestRender_PaginationInvariant(t *testing.T) {
	for _, tc := range []struct {
		n, pageSize, page  int
		wantMax, wantPage  int
		wantLen, wantStart int
	}{
		{n: 0, pageSize: 5, page: 1, wantMax: 1, wantPage: 1, wantLen: 0},
		{n: 0, pageSize: 5, page: 7, wantMax: 1, wantPage: 1, wantLen: 0},
		{n: 12, pageSize: 5, page: 1, wantMax: 3, wantPage: 1, wantLen: 5, wantStart: 0},
		{n: 12, pageSize: 5, page: 3, wantMax: 3, wantPage: 3, wantLen: 2, wantStart: 10},
		{n: 12, pageSize: 5, page: 99, wantMax: 3, wantPage: 3, wantLen: 2, wantStart: 10},
		{n: 12, pageSize: 5, page: -4, wantMax: 3, wantPage: 1, wantLen: 5, wantStart: 0},
		{n: 10, pageSize: 10, page: 2, wantMax: 1, wantPage: 1, wantLen: 10, wantStart: 0},
		{n: 21, pageSize: 20, page: 2, wantMax: 2, wantPage: 2, wantLen: 1, wantStart: 20},
	} {
		activities := make([]travel.Activity, tc.n)
		for i := range activities {
			activities[i].Name = fmt.Sprintf("a%02d", i)
		}

		page := catalog.Render(activities, nil, catalog.SortNone, tc.pageSize, tc.page)
		assert.Equal(t, tc.wantMax, page.MaxPage, "n=%d p=%d page=%d", tc.n, tc.pageSize, tc.page)
		assert.Equal(t, tc.wantPage, page.Number, "n=%d p=%d page=%d", tc.n, tc.pageSize, tc.page)
		assert.Len(t, page.Items, tc.wantLen, "n=%d p=%d page=%d", tc.n, tc.pageSize, tc.page)
		assert.Equal(t, tc.n, page.TotalCount)

		if tc.wantLen > 0 {
			assert.Equal(t, fmt.Sprintf("a%02d", tc.wantStart), page.Items[0].Name)
		}
	}
}

func TestParseSort(t *testing.T) {
	for _, name := range []string{"none", "rating_asc", "rating_desc", "price_asc", "price_desc"} {
		_, ok := catalog.ParseSort(name)
		assert.True(t, ok, name)
	}

	_, ok := catalog.ParseSort("alphabetical")
	assert.False(t, ok)
}
