package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

func testConfig() common.GeocodingConfig {
	return common.GeocodingConfig{
		UserAgent:      "test-agent/1.0",
		RequestTimeout: 2 * time.Second,
		RateLimit:      1000,
	}
}

func TestGeocode_LiteralCoordinates(t *testing.T) {
	s := NewService(testConfig(), nil, WithBaseURL("http://127.0.0.1:1"))

	coords, err := s.Geocode(context.Background(), "42.3601, -71.0589")
	require.NoError(t, err)
	assert.Equal(t, 42.3601, coords.Latitude)
	assert.Equal(t, -71.0589, coords.Longitude)
}

func TestGeocode_LiteralOutOfRangeFallsThrough(t *testing.T) {
	// 95 is not a valid latitude; with the API unreachable and no city
	// match, resolution fails.
	s := NewService(testConfig(), nil, WithBaseURL("http://127.0.0.1:1"))

	_, err := s.Geocode(context.Background(), "95.0, 10.0")
	assert.ErrorIs(t, err, interfaces.ErrLocationNotFound)
}

func TestGeocode_NominatimResponse(t *testing.T) {
	var gotUserAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent.Store(r.Header.Get("User-Agent"))
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Springfield", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"39.7817","lon":"-89.6501"}]`))
	}))
	defer server.Close()

	s := NewService(testConfig(), nil, WithBaseURL(server.URL))

	coords, err := s.Geocode(context.Background(), "Springfield")
	require.NoError(t, err)
	assert.Equal(t, 39.7817, coords.Latitude)
	assert.Equal(t, -89.6501, coords.Longitude)
	assert.Equal(t, "test-agent/1.0", gotUserAgent.Load())
}

func TestGeocode_CachesResults(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"lat":"40.0","lon":"-74.0"}]`))
	}))
	defer server.Close()

	s := NewService(testConfig(), nil, WithBaseURL(server.URL))

	for i := 0; i < 3; i++ {
		// Cache keys are case-insensitive.
		_, err := s.Geocode(context.Background(), "Trenton")
		require.NoError(t, err)
		_, err = s.Geocode(context.Background(), "TRENTON")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestGeocode_StaticCityFallback(t *testing.T) {
	// API unreachable; known city names still resolve.
	s := NewService(testConfig(), nil, WithBaseURL("http://127.0.0.1:1"))

	coords, err := s.Geocode(context.Background(), "Boston")
	require.NoError(t, err)
	assert.Equal(t, 42.3601, coords.Latitude)

	// Partial match.
	coords, err = s.Geocode(context.Background(), "downtown seattle area")
	require.NoError(t, err)
	assert.Equal(t, 47.6062, coords.Latitude)

	// Comma-separated part match.
	coords, err = s.Geocode(context.Background(), "Capitol Hill, Denver")
	require.NoError(t, err)
	assert.Equal(t, 39.7392, coords.Latitude)
}

func TestGeocode_EmptyLocation(t *testing.T) {
	s := NewService(testConfig(), nil)

	_, err := s.Geocode(context.Background(), "  ")
	assert.ErrorIs(t, err, interfaces.ErrLocationNotFound)
}

func TestGeocode_UnknownLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s := NewService(testConfig(), nil, WithBaseURL(server.URL))

	_, err := s.Geocode(context.Background(), "Xanadu Nowhere")
	assert.ErrorIs(t, err, interfaces.ErrLocationNotFound)
}

func TestReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Write([]byte(`{"display_name":"1 Main St, Boston, MA"}`))
	}))
	defer server.Close()

	s := NewService(testConfig(), nil, WithBaseURL(server.URL))

	address := s.ReverseGeocode(context.Background(), models.Coordinates{Latitude: 42.36, Longitude: -71.06})
	assert.Equal(t, "1 Main St, Boston, MA", address)
}

func TestReverseGeocode_FailuresReturnEmpty(t *testing.T) {
	s := NewService(testConfig(), nil, WithBaseURL("http://127.0.0.1:1"))

	assert.Equal(t, "", s.ReverseGeocode(context.Background(), models.Coordinates{Latitude: 42.36, Longitude: -71.06}))
	assert.Equal(t, "", s.ReverseGeocode(context.Background(), models.Coordinates{}))
}

func TestParseLiteralCoordinates(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"40.7, -74.0", true},
		{"-90, 180", true},
		{"91, 0", false},
		{"0, 181", false},
		{"boston", false},
		{"1,2,3", false},
	}

	for _, tt := range tests {
		_, ok := parseLiteralCoordinates(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
	}
}
