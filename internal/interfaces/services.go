package interfaces

import (
	"context"
	"errors"

	"github.com/sridhs21/PCVF/internal/models"
)

// ErrLocationNotFound is returned when a location cannot be resolved to
// coordinates by any geocoding strategy.
var ErrLocationNotFound = errors.New("location not found")

// GeocodingService resolves free-form location text to coordinates.
type GeocodingService interface {
	// Geocode resolves text such as "Boston" or "42.36,-71.06".
	// Returns ErrLocationNotFound when every strategy fails.
	Geocode(ctx context.Context, location string) (models.Coordinates, error)

	// ReverseGeocode returns a display address for coordinates, or ""
	// when unavailable.
	ReverseGeocode(ctx context.Context, coords models.Coordinates) string
}

// SentimentScore is the polarity breakdown for a piece of text.
type SentimentScore struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// SentimentService scores review text polarity. It is an optional
// enrichment; implementations never fail the pipeline.
type SentimentService interface {
	AnalyzeText(text string) SentimentScore
	AnalyzeReviews(reviews []models.Review) ReviewSentiment
}

// ReviewSentiment aggregates sentiment over a listing's reviews.
type ReviewSentiment struct {
	Average      SentimentScore     `json:"average"`
	Distribution map[string]float64 `json:"distribution"` // positive/neutral/negative percentages
}

// RecommendationResult is one entry of the ranked response surface.
type RecommendationResult struct {
	models.Listing
	Sentiment *ReviewSentiment `json:"sentiment,omitempty"`
}

// SearchResponse is the full payload returned for one search.
type SearchResponse struct {
	Recommendations []RecommendationResult `json:"recommendations"`
	Count           int                    `json:"count"`
	DataSources     []string               `json:"data_sources"`
	Stats           *models.DatasetStats   `json:"stats,omitempty"`
	Message         string                 `json:"message,omitempty"`
}

// RecommenderService runs the full search: geocode, fetch, normalize,
// dedup/merge, score, filter/rank, truncate.
type RecommenderService interface {
	Recommend(ctx context.Context, criteria models.SearchCriteria) (*SearchResponse, error)
}
