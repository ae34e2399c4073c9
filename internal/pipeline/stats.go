package pipeline

import (
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/models"
)

// topCategoryCount caps the category distribution in stats reports.
const topCategoryCount = 10

// Reporter aggregates dataset-level quality statistics for
// observability. It never alters the listings it inspects.
type Reporter struct {
	logger arbor.ILogger
}

// NewReporter creates a stats reporter.
func NewReporter(logger arbor.ILogger) *Reporter {
	return &Reporter{logger: logger}
}

// Report computes completeness, category distribution, and review
// volume metrics over a batch. An empty batch yields zeroed stats.
func (r *Reporter) Report(listings []models.Listing) models.DatasetStats {
	stats := models.DatasetStats{
		ListingCount: len(listings),
		Completeness: map[string]float64{},
		SourceCounts: map[string]int{},
	}
	if len(listings) == 0 {
		return stats
	}

	total := float64(len(listings))

	fields := map[string]func(models.Listing) bool{
		"name":        func(l models.Listing) bool { return l.Name != "" },
		"rating":      func(l models.Listing) bool { return l.Rating > 0 },
		"phone":       func(l models.Listing) bool { return l.Phone != "" },
		"address":     func(l models.Listing) bool { return l.Address != "" },
		"coordinates": func(l models.Listing) bool { return l.HasCoordinates() },
	}

	completenessSum := 0.0
	for field, present := range fields {
		count := 0
		for _, listing := range listings {
			if present(listing) {
				count++
			}
		}
		pct := float64(count) / total * 100
		stats.Completeness[field] = pct
		completenessSum += pct
	}
	stats.QualityScore = completenessSum / float64(len(fields)) / 100

	categoryCounts := map[string]int{}
	for _, listing := range listings {
		for _, category := range listing.Categories {
			categoryCounts[strings.ToLower(category)]++
		}

		if listing.HandlesExotic {
			stats.ExoticCount++
		}

		stats.ReviewCount += len(listing.Reviews)

		for _, source := range listing.Sources {
			stats.SourceCounts[source]++
		}
	}

	stats.CategoryCount = len(categoryCounts)
	stats.TopCategories = topCategories(categoryCounts, topCategoryCount)
	stats.ExoticPercent = float64(stats.ExoticCount) / total * 100
	stats.AvgReviewsPerItem = float64(stats.ReviewCount) / total

	if r.logger != nil {
		r.logger.Debug().
			Int("listings", stats.ListingCount).
			Float64("quality_score", stats.QualityScore).
			Int("categories", stats.CategoryCount).
			Msg("Dataset stats computed")
	}

	return stats
}

// topCategories returns the n most frequent categories, ties broken
// alphabetically for stable output.
func topCategories(counts map[string]int, n int) []models.CategoryCount {
	all := make([]models.CategoryCount, 0, len(counts))
	for category, count := range counts {
		all = append(all, models.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count != all[j].Count {
			return all[i].Count > all[j].Count
		}
		return all[i].Category < all[j].Category
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
