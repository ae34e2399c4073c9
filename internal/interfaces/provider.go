package interfaces

import (
	"context"

	"github.com/sridhs21/PCVF/internal/models"
)

// Provider is a single location-data source contributing raw,
// provider-shaped records for a search location. Implementations tag
// every record they emit with their Name.
type Provider interface {
	// Name returns the stable source tag ("yelp_dataset", "foursquare", ...).
	Name() string

	// Fetch returns raw records for the given location text or
	// "lat,lng" coordinate pair, capped at maxResults.
	Fetch(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error)
}

// ProviderManager fans a search out across all enabled providers and
// collects their raw records.
type ProviderManager interface {
	// EnabledSources lists the tags of providers currently configured.
	EnabledSources() []string

	// FetchAll collects raw records from every enabled provider.
	// Individual provider failures are logged and skipped; the error is
	// non-nil only when the fan-out itself cannot run.
	FetchAll(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error)
}
