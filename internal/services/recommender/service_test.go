package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

type stubProviders struct {
	records []models.RawRecord
	err     error
	sources []string
}

func (s *stubProviders) EnabledSources() []string { return s.sources }

func (s *stubProviders) FetchAll(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error) {
	return s.records, s.err
}

type stubGeocoder struct {
	coords models.Coordinates
	err    error
}

func (g *stubGeocoder) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	return g.coords, g.err
}

func (g *stubGeocoder) ReverseGeocode(ctx context.Context, coords models.Coordinates) string {
	return ""
}

type stubSentiment struct{}

func (s *stubSentiment) AnalyzeText(text string) interfaces.SentimentScore {
	return interfaces.SentimentScore{Neutral: 1}
}

func (s *stubSentiment) AnalyzeReviews(reviews []models.Review) interfaces.ReviewSentiment {
	return interfaces.ReviewSentiment{
		Average:      interfaces.SentimentScore{Compound: 0.5},
		Distribution: map[string]float64{"positive": 100, "neutral": 0, "negative": 0},
	}
}

func rawVet(id, name string, lat, lng, rating float64, reviewCount int) models.RawRecord {
	return models.RawRecord{
		"id":     id,
		"name":   name,
		"source": "here",
		"coordinates": map[string]interface{}{
			"latitude": lat, "longitude": lng,
		},
		"rating":       rating,
		"review_count": reviewCount,
		"categories":   []interface{}{"Veterinarians"},
	}
}

func newTestService(providers interfaces.ProviderManager, geocoder interfaces.GeocodingService, sentiment interfaces.SentimentService) *Service {
	return NewService(
		providers, geocoder, sentiment,
		common.ProvidersConfig{MaxResultsPerSource: 15},
		common.SearchConfig{DefaultTopN: 5, MaxReviews: 3},
		nil,
	)
}

func TestRecommend_FullPipeline(t *testing.T) {
	providers := &stubProviders{
		sources: []string{"here"},
		records: []models.RawRecord{
			rawVet("1", "Alpha Vet Clinic", 42.361, -71.059, 4.8, 200),
			rawVet("2", "Beta Animal Hospital", 42.362, -71.058, 3.9, 20),
			// Duplicate of Alpha from another angle, merges away.
			rawVet("3", "Alpha Veterinary Clinic", 42.361, -71.059, 4.5, 50),
		},
	}
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 42.36, Longitude: -71.06}}

	s := newTestService(providers, geocoder, nil)

	response, err := s.Recommend(context.Background(), models.SearchCriteria{LocationText: "Boston"})
	require.NoError(t, err)

	require.Len(t, response.Recommendations, 2)
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, []string{"here"}, response.DataSources)
	assert.Empty(t, response.Message)

	// Highest composite first.
	assert.Equal(t, "Alpha Vet Clinic", response.Recommendations[0].Name)
	assert.True(t, response.Recommendations[0].Scored)
	assert.NotEmpty(t, response.Recommendations[0].RecommendationReasons)

	require.NotNil(t, response.Stats)
	assert.Equal(t, 2, response.Stats.ListingCount)
}

func TestRecommend_TopNTruncation(t *testing.T) {
	var records []models.RawRecord
	for i := 0; i < 10; i++ {
		records = append(records, rawVet(
			string(rune('a'+i)),
			"Clinic "+string(rune('A'+i)),
			40.0+float64(i)*0.01, -74.0, 4.0, 30,
		))
	}
	providers := &stubProviders{sources: []string{"here"}, records: records}
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 40.0, Longitude: -74.0}}

	s := newTestService(providers, geocoder, nil)

	response, err := s.Recommend(context.Background(), models.SearchCriteria{LocationText: "Trenton", TopN: 3})
	require.NoError(t, err)
	assert.Len(t, response.Recommendations, 3)
}

func TestRecommend_ReviewTruncation(t *testing.T) {
	record := rawVet("1", "Busy Vet", 40.0, -74.0, 4.5, 100)
	var reviews []interface{}
	for i := 0; i < 6; i++ {
		reviews = append(reviews, map[string]interface{}{
			"id": string(rune('a' + i)), "rating": 5.0, "text": "Nice place",
		})
	}
	record["reviews"] = reviews

	providers := &stubProviders{sources: []string{"here"}, records: []models.RawRecord{record}}
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 40.0, Longitude: -74.0}}

	s := newTestService(providers, geocoder, &stubSentiment{})

	response, err := s.Recommend(context.Background(), models.SearchCriteria{LocationText: "Trenton"})
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 1)

	result := response.Recommendations[0]
	assert.Len(t, result.Reviews, 3)

	// Sentiment runs over the full review set before truncation.
	require.NotNil(t, result.Sentiment)
	assert.Equal(t, 100.0, result.Sentiment.Distribution["positive"])
}

func TestRecommend_GeocodeFailureStillSearches(t *testing.T) {
	providers := &stubProviders{
		sources: []string{"yelp_dataset"},
		records: []models.RawRecord{rawVet("1", "City Vet", 39.95, -75.16, 4.0, 10)},
	}
	geocoder := &stubGeocoder{err: interfaces.ErrLocationNotFound}

	s := newTestService(providers, geocoder, nil)

	response, err := s.Recommend(context.Background(), models.SearchCriteria{
		LocationText: "Philadelphia",
		MaxDistance:  5, // cannot apply without a resolved location
	})
	require.NoError(t, err)
	assert.Len(t, response.Recommendations, 1)
}

func TestRecommend_EmptyResults(t *testing.T) {
	providers := &stubProviders{sources: []string{"here"}}
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 40, Longitude: -74}}

	s := newTestService(providers, geocoder, nil)

	response, err := s.Recommend(context.Background(), models.SearchCriteria{LocationText: "Boston"})
	require.NoError(t, err)
	assert.Equal(t, 0, response.Count)
	assert.Equal(t, "No veterinarians found matching your criteria", response.Message)
}

func TestRecommend_ProviderError(t *testing.T) {
	providers := &stubProviders{err: errors.New("all providers down")}
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 40, Longitude: -74}}

	s := newTestService(providers, geocoder, nil)

	_, err := s.Recommend(context.Background(), models.SearchCriteria{LocationText: "Boston"})
	assert.Error(t, err)
}

func TestRecommend_ExoticFilterApplied(t *testing.T) {
	exotic := rawVet("1", "Exotic Pet Vet", 40.0, -74.0, 4.0, 30)
	exotic["categories"] = []interface{}{"Exotic Pets"}
	plain := rawVet("2", "Plain Vet", 40.01, -74.0, 4.5, 60)

	providers := &stubProviders{sources: []string{"here"}, records: []models.RawRecord{exotic, plain}}
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 40, Longitude: -74}}

	s := newTestService(providers, geocoder, nil)

	response, err := s.Recommend(context.Background(), models.SearchCriteria{
		LocationText: "Trenton",
		PetType:      "exotic",
	})
	require.NoError(t, err)
	require.Len(t, response.Recommendations, 1)
	assert.Equal(t, "Exotic Pet Vet", response.Recommendations[0].Name)
}
