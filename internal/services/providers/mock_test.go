package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sridhs21/PCVF/internal/models"
)

func TestMock_Fetch(t *testing.T) {
	geocoder := &stubGeocoder{coords: models.Coordinates{Latitude: 42.36, Longitude: -71.06}}
	p := NewMockProvider(geocoder, nil)

	records, err := p.Fetch(context.Background(), "Boston, MA", 8)
	require.NoError(t, err)
	require.Len(t, records, 8)

	for _, record := range records {
		assert.Equal(t, "mock_data", record.Source())
		assert.NotEmpty(t, record.GetString("id"))
		assert.NotEmpty(t, record.GetString("name"))

		rating, ok := record.GetFloat("rating")
		require.True(t, ok)
		assert.GreaterOrEqual(t, rating, 3.0)
		assert.LessOrEqual(t, rating, 5.0)

		count, ok := record.GetInt("review_count")
		require.True(t, ok)
		assert.GreaterOrEqual(t, count, 5)

		// Scattered around the geocoded center.
		coords := record.GetMap("coordinates")
		require.NotNil(t, coords)
		lat := coords["latitude"].(float64)
		assert.InDelta(t, 42.36, lat, 0.02)

		reviews, ok := record["reviews"].([]interface{})
		require.True(t, ok)
		assert.Len(t, reviews, 1)
	}
}

func TestMock_UniqueIDs(t *testing.T) {
	p := NewMockProvider(nil, nil)

	records, err := p.Fetch(context.Background(), "Denver", 20)
	require.NoError(t, err)

	seen := map[string]struct{}{}
	for _, record := range records {
		id := record.GetString("id")
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestMock_DefaultCenterWithoutGeocoder(t *testing.T) {
	p := NewMockProvider(nil, nil)

	records, err := p.Fetch(context.Background(), "Anywhere", 1)
	require.NoError(t, err)
	require.Len(t, records, 1)

	coords := records[0].GetMap("coordinates")
	lat := coords["latitude"].(float64)
	assert.InDelta(t, 40.7128, lat, 0.02)
}
