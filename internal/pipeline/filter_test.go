package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sridhs21/PCVF/internal/models"
)

func TestRanker_ExoticFilter(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "A", HandlesExotic: true},
		{Name: "B", HandlesExotic: false},
		{Name: "C", HandlesExotic: true},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{PetType: "exotic"})
	require.Len(t, result, 2)
	for _, listing := range result {
		assert.True(t, listing.HandlesExotic)
	}

	// Pet type matching is case-insensitive.
	result = r.FilterAndRank(listings, models.SearchCriteria{PetType: "Exotic"})
	assert.Len(t, result, 2)

	// Other pet types apply no exotic restriction.
	result = r.FilterAndRank(listings, models.SearchCriteria{PetType: "dog"})
	assert.Len(t, result, 3)
}

func TestRanker_PricePreference(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "cheap", Price: "$"},
		{Name: "mid", Price: "$$"},
		{Name: "pricey", Price: "$$$"},
		{Name: "unknown", Price: ""},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{PricePreference: "$"})

	names := listingNames(result)
	assert.ElementsMatch(t, []string{"cheap", "unknown"}, names)

	// A looser preference admits everything at or below the tier.
	result = r.FilterAndRank(listings, models.SearchCriteria{PricePreference: "$$$"})
	assert.Len(t, result, 4)
}

func TestRanker_DistanceFilterInclusiveBoundary(t *testing.T) {
	r := NewRanker(nil)

	user := &models.Coordinates{Latitude: 40.0, Longitude: -74.0}
	listings := []models.Listing{
		{Name: "exact", Distance: 10.0},
		{Name: "near", Distance: 3.2},
		{Name: "far", Distance: 10.1},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{
		UserLocation: user,
		MaxDistance:  10.0,
	})

	names := listingNames(result)
	assert.Contains(t, names, "exact")
	assert.Contains(t, names, "near")
	assert.NotContains(t, names, "far")
}

func TestRanker_DistanceComputedFromCoordinates(t *testing.T) {
	r := NewRanker(nil)

	user := &models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	listings := []models.Listing{
		{
			Name: "close",
			// A few blocks from the query point.
			Coordinates: models.Coordinates{Latitude: 40.7130, Longitude: -74.0100},
		},
		{
			Name: "another city",
			Coordinates: models.Coordinates{Latitude: 34.0522, Longitude: -118.2437},
		},
		{Name: "no location"},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{
		UserLocation: user,
		MaxDistance:  25.0,
	})

	require.Len(t, result, 1)
	assert.Equal(t, "close", result[0].Name)
	assert.Greater(t, result[0].Distance, 0.0)
}

func TestRanker_GeneralSpecialtyIsNoOp(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "A", Categories: []string{"Veterinarians"}},
		{Name: "B", Categories: []string{"Pet Boarding"}},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{
		Specialties: []string{"general"},
	})
	assert.Len(t, result, 2)
}

func TestRanker_SpecialtyMatchIsLogicalOr(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "A", Categories: []string{"Emergency Vet"}},
		{Name: "B", Categories: []string{"Pet Dental Care"}},
		{Name: "C", Categories: []string{"Grooming"}},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{
		Specialties: []string{"emergency", "dental"},
	})

	assert.ElementsMatch(t, []string{"A", "B"}, listingNames(result))

	// Mixed lists drop "general" but keep the concrete terms.
	result = r.FilterAndRank(listings, models.SearchCriteria{
		Specialties: []string{"general", "dental"},
	})
	assert.Equal(t, []string{"B"}, listingNames(result))
}

func TestRanker_SortsByCompositeScoreWhenScored(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "mid", CompositeScore: 0.5, Scored: true},
		{Name: "top", CompositeScore: 0.9, Scored: true},
		{Name: "low", CompositeScore: 0.1, Scored: true},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{})
	assert.Equal(t, []string{"top", "mid", "low"}, listingNames(result))
}

func TestRanker_SortsByRatingWhenUnscored(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "three", Rating: 3.0},
		{Name: "five", Rating: 5.0},
		{Name: "four", Rating: 4.0},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{})
	assert.Equal(t, []string{"five", "four", "three"}, listingNames(result))
}

func TestRanker_ScoreSortSupersedesDistanceOrder(t *testing.T) {
	r := NewRanker(nil)

	user := &models.Coordinates{Latitude: 40.0, Longitude: -74.0}
	listings := []models.Listing{
		{Name: "near but weak", Distance: 1.0, CompositeScore: 0.2, Scored: true},
		{Name: "far but strong", Distance: 9.0, CompositeScore: 0.8, Scored: true},
	}

	result := r.FilterAndRank(listings, models.SearchCriteria{
		UserLocation: user,
		MaxDistance:  10.0,
	})

	assert.Equal(t, []string{"far but strong", "near but weak"}, listingNames(result))
}

func TestRanker_InputUnchanged(t *testing.T) {
	r := NewRanker(nil)

	listings := []models.Listing{
		{Name: "keep", Price: "$$$"},
		{Name: "drop", Price: "$"},
	}

	_ = r.FilterAndRank(listings, models.SearchCriteria{PricePreference: "$"})

	// The caller's slice is not reordered or truncated.
	assert.Equal(t, "keep", listings[0].Name)
	assert.Equal(t, "drop", listings[1].Name)
}

func TestRanker_EmptyInput(t *testing.T) {
	r := NewRanker(nil)
	assert.Empty(t, r.FilterAndRank(nil, models.SearchCriteria{}))
}

func listingNames(listings []models.Listing) []string {
	names := make([]string, 0, len(listings))
	for _, listing := range listings {
		names = append(names, listing.Name)
	}
	return names
}
