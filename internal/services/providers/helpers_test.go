package providers

import (
	"context"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// stubGeocoder resolves every location to a fixed coordinate pair.
type stubGeocoder struct {
	coords models.Coordinates
	err    error
}

func (g *stubGeocoder) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	if g.err != nil {
		return models.Coordinates{}, g.err
	}
	return g.coords, nil
}

func (g *stubGeocoder) ReverseGeocode(ctx context.Context, coords models.Coordinates) string {
	return ""
}

var _ interfaces.GeocodingService = (*stubGeocoder)(nil)
