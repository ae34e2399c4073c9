// Package recommender orchestrates a full search: resolve the
// location, fan out to providers, run the reconciliation pipeline, and
// shape the ranked response.
package recommender

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
	"github.com/sridhs21/PCVF/internal/pipeline"
)

// Service implements interfaces.RecommenderService.
type Service struct {
	providers    interfaces.ProviderManager
	geocoder     interfaces.GeocodingService
	sentiment    interfaces.SentimentService
	normalizer   *pipeline.Normalizer
	deduplicator *pipeline.Deduplicator
	scorer       *pipeline.Scorer
	ranker       *pipeline.Ranker
	reporter     *pipeline.Reporter

	maxPerSource int
	maxReviews   int
	logger       arbor.ILogger
}

// NewService creates a recommender. sentiment may be nil to disable
// review-sentiment enrichment.
func NewService(
	providers interfaces.ProviderManager,
	geocoder interfaces.GeocodingService,
	sentiment interfaces.SentimentService,
	providersConfig common.ProvidersConfig,
	searchConfig common.SearchConfig,
	logger arbor.ILogger,
) *Service {
	maxReviews := searchConfig.MaxReviews
	if maxReviews <= 0 {
		maxReviews = 3
	}
	maxPerSource := providersConfig.MaxResultsPerSource
	if maxPerSource <= 0 {
		maxPerSource = 15
	}

	return &Service{
		providers:    providers,
		geocoder:     geocoder,
		sentiment:    sentiment,
		normalizer:   pipeline.NewNormalizer(logger),
		deduplicator: pipeline.NewDeduplicator(logger),
		scorer:       pipeline.NewScorer(logger),
		ranker:       pipeline.NewRanker(logger),
		reporter:     pipeline.NewReporter(logger),
		maxPerSource: maxPerSource,
		maxReviews:   maxReviews,
		logger:       logger,
	}
}

// Recommend implements interfaces.RecommenderService. The pipeline
// stages run in fixed order: fetch, normalize, dedup/merge, score,
// filter/rank, truncate.
func (s *Service) Recommend(ctx context.Context, criteria models.SearchCriteria) (*interfaces.SearchResponse, error) {
	if criteria.UserLocation == nil {
		coords, err := s.geocoder.Geocode(ctx, criteria.LocationText)
		if err != nil {
			// Providers that match on location text can still produce
			// results; only distance filtering is lost.
			if s.logger != nil {
				s.logger.Warn().
					Str("location", criteria.LocationText).
					Err(err).
					Msg("Could not geocode search location, distance filtering disabled")
			}
		} else {
			criteria.UserLocation = &coords
		}
	}

	raw, err := s.providers.FetchAll(ctx, criteria.LocationText, s.maxPerSource)
	if err != nil {
		return nil, fmt.Errorf("provider fetch: %w", err)
	}

	listings := s.normalizer.NormalizeBatch(raw)
	merged := s.deduplicator.MergeDuplicates(listings)
	scored := s.scorer.Score(merged)
	ranked := s.ranker.FilterAndRank(scored, criteria)

	stats := s.reporter.Report(ranked)

	topN := criteria.ResultTopN()
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	recommendations := make([]interfaces.RecommendationResult, 0, len(ranked))
	for _, listing := range ranked {
		result := interfaces.RecommendationResult{Listing: listing}

		if s.sentiment != nil && len(listing.Reviews) > 0 {
			reviewSentiment := s.sentiment.AnalyzeReviews(listing.Reviews)
			result.Sentiment = &reviewSentiment
		}

		// Responses carry only the freshest few reviews.
		if len(result.Reviews) > s.maxReviews {
			result.Reviews = result.Reviews[:s.maxReviews]
		}

		recommendations = append(recommendations, result)
	}

	response := &interfaces.SearchResponse{
		Recommendations: recommendations,
		Count:           len(recommendations),
		DataSources:     s.providers.EnabledSources(),
		Stats:           &stats,
	}
	if len(recommendations) == 0 {
		response.Message = "No veterinarians found matching your criteria"
	}

	if s.logger != nil {
		s.logger.Info().
			Str("location", criteria.LocationText).
			Int("raw", len(raw)).
			Int("merged", len(merged)).
			Int("returned", len(recommendations)).
			Msg("Search complete")
	}

	return response, nil
}
