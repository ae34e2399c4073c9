package pipeline

import (
	"fmt"
	"math"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/models"
)

// Scorer attaches a blended quality score and human-readable
// justification to each listing. It touches only the composite score
// and recommendation reasons; identity fields are left alone.
type Scorer struct {
	logger arbor.ILogger
}

// NewScorer creates a scorer.
func NewScorer(logger arbor.ILogger) *Scorer {
	return &Scorer{logger: logger}
}

// Score computes composite scores for a batch. The review-volume term
// is normalized against the batch-wide maximum, so scores are relative
// to the set being ranked.
func (s *Scorer) Score(listings []models.Listing) []models.Listing {
	if len(listings) == 0 {
		return []models.Listing{}
	}

	maxReviewCount := 0
	for _, listing := range listings {
		if listing.ReviewCount > maxReviewCount {
			maxReviewCount = listing.ReviewCount
		}
	}

	scored := make([]models.Listing, len(listings))
	for i, listing := range listings {
		ratingNorm := (listing.Rating - 1) / 4
		if listing.ReviewCount < lowEvidenceReviewCount {
			// Low-evidence penalty: a high rating backed by a couple of
			// reviews should not outrank a well-established one.
			ratingNorm *= 0.5
		}

		reviewCountNorm := 0.0
		if maxReviewCount > 0 {
			reviewCountNorm = math.Log1p(float64(listing.ReviewCount)) / math.Log1p(float64(maxReviewCount))
		}

		composite := ratingWeight*ratingNorm + reviewCountWeight*reviewCountNorm
		composite = math.Min(math.Max(composite, 0), 1)

		listing.CompositeScore = composite
		listing.Scored = true
		listing.RecommendationReasons = recommendationReasons(listing)
		scored[i] = listing
	}

	if s.logger != nil {
		s.logger.Debug().
			Int("listings", len(scored)).
			Int("max_review_count", maxReviewCount).
			Msg("Computed composite scores")
	}

	return scored
}

// recommendationReasons builds the justification clauses in a fixed
// order with fixed wording; both are a stable contract relied on by
// golden-output tests and the UI.
func recommendationReasons(listing models.Listing) []string {
	var reasons []string

	if listing.Rating >= 4.5 {
		reasons = append(reasons, fmt.Sprintf("Excellent rating of %.1f/5 stars", listing.Rating))
	} else if listing.Rating >= 4.0 {
		reasons = append(reasons, fmt.Sprintf("Very good rating of %.1f/5 stars", listing.Rating))
	}

	if listing.ReviewCount > 100 {
		reasons = append(reasons, fmt.Sprintf("Highly reviewed with %d customer ratings", listing.ReviewCount))
	} else if listing.ReviewCount > 50 {
		reasons = append(reasons, fmt.Sprintf("Well-reviewed with %d customer ratings", listing.ReviewCount))
	}

	if listing.Distance > 0 {
		reasons = append(reasons, fmt.Sprintf("Located %.1f miles from you", listing.Distance))
	}

	if listing.HandlesExotic {
		reasons = append(reasons, "Handles exotic pets")
	}

	if len(listing.Sources) > 1 {
		reasons = append(reasons, fmt.Sprintf("Information verified across %d different sources", len(listing.Sources)))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Veterinary clinic in your area")
	}

	return reasons
}
