// Package sentiment scores review text polarity with a VADER-style
// lexicon approach: per-word valence with negation and intensity
// modifiers, normalized into a compound score in [-1, 1]. It is a
// best-effort enrichment and never fails.
package sentiment

import (
	"math"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

const (
	// compoundNormalizer flattens the valence sum into [-1, 1].
	compoundNormalizer = 15.0

	// Compound thresholds for the positive/neutral/negative buckets.
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	nonWordPattern = regexp.MustCompile(`[^a-z0-9' ]+`)
)

// Service implements interfaces.SentimentService. Stateless and safe
// for concurrent use.
type Service struct {
	logger arbor.ILogger
}

// NewService creates a sentiment service.
func NewService(logger arbor.ILogger) *Service {
	return &Service{logger: logger}
}

// neutralScore is returned for empty or unscorable text.
func neutralScore() interfaces.SentimentScore {
	return interfaces.SentimentScore{Neutral: 1.0}
}

// AnalyzeText scores one piece of text. Empty input yields a fully
// neutral score.
func (s *Service) AnalyzeText(text string) interfaces.SentimentScore {
	words := tokenize(text)
	if len(words) == 0 {
		return neutralScore()
	}

	var sum float64
	posCount, negCount := 0, 0

	for i, word := range words {
		v, ok := valence[word]
		if !ok {
			continue
		}

		// Look back up to two words for a negator or booster.
		for back := 1; back <= 2 && i-back >= 0; back++ {
			prev := words[i-back]
			if _, negated := negators[prev]; negated {
				v = -v * 0.74
				break
			}
			if boost, boosted := boosters[prev]; boosted {
				if v > 0 {
					v += boost
				} else {
					v -= boost
				}
			}
		}

		sum += v
		if v > 0 {
			posCount++
		} else if v < 0 {
			negCount++
		}
	}

	score := interfaces.SentimentScore{
		Compound: sum / math.Sqrt(sum*sum+compoundNormalizer),
	}

	total := float64(len(words))
	score.Positive = float64(posCount) / total
	score.Negative = float64(negCount) / total
	score.Neutral = 1 - score.Positive - score.Negative

	return score
}

// AnalyzeReviews averages per-review scores and buckets each review by
// its compound value. No reviews means a 100% neutral distribution.
func (s *Service) AnalyzeReviews(reviews []models.Review) interfaces.ReviewSentiment {
	if len(reviews) == 0 {
		return interfaces.ReviewSentiment{
			Average:      neutralScore(),
			Distribution: map[string]float64{"positive": 0, "neutral": 100, "negative": 0},
		}
	}

	var avg interfaces.SentimentScore
	counts := map[string]int{}

	for _, review := range reviews {
		score := s.AnalyzeText(review.Text)
		avg.Negative += score.Negative
		avg.Neutral += score.Neutral
		avg.Positive += score.Positive
		avg.Compound += score.Compound
		counts[categorize(score.Compound)]++
	}

	n := float64(len(reviews))
	avg.Negative /= n
	avg.Neutral /= n
	avg.Positive /= n
	avg.Compound /= n

	return interfaces.ReviewSentiment{
		Average: avg,
		Distribution: map[string]float64{
			"positive": float64(counts["positive"]) / n * 100,
			"neutral":  float64(counts["neutral"]) / n * 100,
			"negative": float64(counts["negative"]) / n * 100,
		},
	}
}

func categorize(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return "positive"
	case compound <= negativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// tokenize lowercases, strips URLs and punctuation, and splits on
// whitespace. Apostrophes are dropped so "didn't" matches "didnt".
func tokenize(text string) []string {
	cleaned := urlPattern.ReplaceAllString(strings.ToLower(text), " ")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = nonWordPattern.ReplaceAllString(cleaned, " ")
	return strings.Fields(cleaned)
}
