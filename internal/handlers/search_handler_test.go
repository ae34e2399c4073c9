package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

type stubRecommender struct {
	response *interfaces.SearchResponse
	err      error
	criteria models.SearchCriteria
}

func (s *stubRecommender) Recommend(ctx context.Context, criteria models.SearchCriteria) (*interfaces.SearchResponse, error) {
	s.criteria = criteria
	return s.response, s.err
}

func postSearch(t *testing.T, h *SearchHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.SearchHandler(w, req)
	return w
}

func TestSearchHandler_Success(t *testing.T) {
	recommender := &stubRecommender{
		response: &interfaces.SearchResponse{
			Recommendations: []interfaces.RecommendationResult{
				{Listing: models.Listing{Name: "City Vet Clinic", Rating: 4.5}},
			},
			Count:       1,
			DataSources: []string{"yelp_dataset", "here"},
			Stats:       &models.DatasetStats{ListingCount: 1},
		},
	}
	h := NewSearchHandler(recommender, nil)

	w := postSearch(t, h, `{"location": "Boston", "pet_type": "dog", "price": "$$"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var body searchResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "City Vet Clinic", body.Recommendations[0].Name)
	assert.Equal(t, "Boston", body.Query.Location)
	assert.Equal(t, []string{"yelp_dataset", "here"}, body.DataSources)
	assert.NotEmpty(t, body.Timestamp)

	// Stats are only included on request.
	assert.Nil(t, body.Stats)

	assert.Equal(t, "Boston", recommender.criteria.LocationText)
	assert.Equal(t, "$$", recommender.criteria.PricePreference)
}

func TestSearchHandler_CoordinatesForwarded(t *testing.T) {
	recommender := &stubRecommender{response: &interfaces.SearchResponse{}}
	h := NewSearchHandler(recommender, nil)

	w := postSearch(t, h, `{"location": "Boston", "latitude": 42.36, "longitude": -71.06}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, recommender.criteria.UserLocation)
	assert.Equal(t, 42.36, recommender.criteria.UserLocation.Latitude)
	assert.Equal(t, -71.06, recommender.criteria.UserLocation.Longitude)
}

func TestSearchHandler_IncludeStats(t *testing.T) {
	recommender := &stubRecommender{
		response: &interfaces.SearchResponse{
			Stats: &models.DatasetStats{ListingCount: 7},
		},
	}
	h := NewSearchHandler(recommender, nil)

	w := postSearch(t, h, `{"location": "Boston", "include_stats": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body searchResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Stats)
	assert.Equal(t, 7, body.Stats.ListingCount)
}

func TestSearchHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing location", `{"pet_type": "dog"}`},
		{"bad price tier", `{"location": "Boston", "price": "$$$$$"}`},
		{"negative distance", `{"location": "Boston", "max_distance": -1}`},
		{"latitude out of range", `{"location": "Boston", "latitude": 91, "longitude": 0}`},
		{"malformed json", `{"location":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSearchHandler(&stubRecommender{response: &interfaces.SearchResponse{}}, nil)
			w := postSearch(t, h, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSearchHandler_MethodNotAllowed(t *testing.T) {
	h := NewSearchHandler(&stubRecommender{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	w := httptest.NewRecorder()
	h.SearchHandler(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSearchHandler_RecommenderError(t *testing.T) {
	h := NewSearchHandler(&stubRecommender{err: errors.New("providers down")}, nil)
	w := postSearch(t, h, `{"location": "Boston"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "providers down")
}

func TestSearchHandler_EmptyResultMessage(t *testing.T) {
	recommender := &stubRecommender{
		response: &interfaces.SearchResponse{
			Recommendations: []interfaces.RecommendationResult{},
			Message:         "No veterinarians found matching your criteria",
		},
	}
	h := NewSearchHandler(recommender, nil)

	w := postSearch(t, h, `{"location": "Nowhere"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body searchResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Count)
	assert.Contains(t, body.Message, "No veterinarians found")
}
