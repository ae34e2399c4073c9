package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/models"
)

// Deduplicator groups listings that refer to the same real-world
// business across sources and merges each group into one listing with
// combined provenance. Grouping is a sequential first-match scan over
// groups in creation order, which keeps the choice of merge base
// deterministic for a given input order.
type Deduplicator struct {
	logger arbor.ILogger
}

// NewDeduplicator creates a deduplicator.
func NewDeduplicator(logger arbor.ILogger) *Deduplicator {
	return &Deduplicator{logger: logger}
}

// listingGroup is one cluster of candidate duplicates.
type listingGroup struct {
	nameKey  string
	location quantizedLocation
	members  []models.Listing
}

// quantizedLocation is a coordinate pair expressed in integer steps of
// 10^-CoordinatePrecision degrees.
type quantizedLocation struct {
	lat int64
	lng int64
}

// matches reports whether two quantized locations fall in the same or
// an adjacent grid cell. The one-step tolerance keeps records that
// round to neighboring cells (40.0001 vs 40.0000) mergeable instead of
// splitting on the rounding boundary.
func (q quantizedLocation) matches(other quantizedLocation) bool {
	return absInt64(q.lat-other.lat) <= 1 && absInt64(q.lng-other.lng) <= 1
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// MergeDuplicates groups listings by approximate identity (name plus
// location) and merges each group. Listings lacking a name or usable
// coordinates cannot be grouped by location and are dropped to avoid
// false merges. Output order is unspecified; callers re-sort.
func (d *Deduplicator) MergeDuplicates(listings []models.Listing) []models.Listing {
	if len(listings) == 0 {
		return []models.Listing{}
	}

	var groups []*listingGroup
	skipped := 0

	for _, listing := range listings {
		name := strings.ToLower(listing.Name)
		if name == "" || !listing.HasCoordinates() {
			skipped++
			continue
		}

		location := quantizeLocation(listing.Coordinates)
		nameKey := dedupNameKey(name)

		matched := false
		for _, group := range groups {
			if !group.location.matches(location) {
				continue
			}
			if strings.Contains(group.nameKey, nameKey) || strings.Contains(nameKey, group.nameKey) ||
				nameSimilarity(group.nameKey, nameKey) > NameSimilarityThreshold {
				group.members = append(group.members, listing)
				matched = true
				break
			}
		}

		if !matched {
			groups = append(groups, &listingGroup{
				nameKey:  nameKey,
				location: location,
				members:  []models.Listing{listing},
			})
		}
	}

	merged := make([]models.Listing, 0, len(groups))
	for _, group := range groups {
		if len(group.members) == 1 {
			merged = append(merged, group.members[0])
		} else {
			merged = append(merged, mergeGroup(group.members))
		}
	}

	if d.logger != nil {
		d.logger.Debug().
			Int("input", len(listings)).
			Int("skipped", skipped).
			Int("groups", len(groups)).
			Int("output", len(merged)).
			Msg("Deduplicated listings")
	}

	return merged
}

// quantizeLocation rounds coordinates to CoordinatePrecision decimals
// (~11 m grid cells) for the spatial component of the grouping key.
func quantizeLocation(coords models.Coordinates) quantizedLocation {
	scale := math.Pow10(CoordinatePrecision)
	return quantizedLocation{
		lat: int64(math.Round(coords.Latitude * scale)),
		lng: int64(math.Round(coords.Longitude * scale)),
	}
}

// dedupNameKey simplifies a lowercase business name for comparison.
// Names containing a veterinary marker are stripped of generic tokens
// ("City Vet Clinic" and "City Veterinary Clinic" both become "city");
// the simplified form is used only when non-empty.
func dedupNameKey(name string) string {
	marked := false
	for _, marker := range vetNameMarkers {
		if strings.Contains(name, marker) {
			marked = true
			break
		}
	}
	if !marked {
		return name
	}

	simplified := name
	for _, token := range vetNameTokens {
		simplified = strings.ReplaceAll(simplified, token, "")
	}
	simplified = strings.Join(strings.Fields(simplified), " ")
	if simplified == "" {
		return name
	}
	return simplified
}

// nameSimilarity is word-set Jaccard similarity with stopwords removed.
func nameSimilarity(a, b string) float64 {
	wordsA := significantWords(a)
	wordsB := significantWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func significantWords(name string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if _, stop := nameStopwords[word]; stop {
			continue
		}
		words[word] = struct{}{}
	}
	return words
}

// provenanceScore ranks a group member for merge base selection:
// richer records (reviews, populated fields, trusted source) win.
func provenanceScore(listing models.Listing) int {
	score := 2 * len(listing.Reviews)

	if listing.Rating != 0 {
		score++
	}
	if listing.ReviewCount != 0 {
		score++
	}
	if listing.Price != "" {
		score++
	}
	if listing.Phone != "" {
		score++
	}
	if listing.ImageURL != "" {
		score++
	}
	if listing.URL != "" {
		score++
	}

	score += sourcePriority[listing.Source]
	return score
}

// mergeGroup merges a duplicate group into one listing. The highest
// provenance member seeds the merged value; the rest backfill empty
// scalars only, contribute reviews (re-tagged with their source), and
// extend the source and category unions in rank order.
func mergeGroup(members []models.Listing) models.Listing {
	ranked := append([]models.Listing(nil), members...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return provenanceScore(ranked[i]) > provenanceScore(ranked[j])
	})

	base := ranked[0]

	var allReviews []models.Review
	var allSources []string
	seenSources := make(map[string]struct{})
	var categories []string
	seenCategories := make(map[string]struct{})

	for _, member := range ranked {
		for _, review := range member.Reviews {
			if review.Source == "" {
				review.Source = member.Source
			}
			allReviews = append(allReviews, review)
		}

		for _, source := range member.Sources {
			if source == "" {
				continue
			}
			if _, ok := seenSources[source]; !ok {
				seenSources[source] = struct{}{}
				allSources = append(allSources, source)
			}
		}

		if base.Rating == 0 && member.Rating != 0 {
			base.Rating = member.Rating
		}
		if base.ReviewCount == 0 && member.ReviewCount != 0 {
			base.ReviewCount = member.ReviewCount
		}
		if base.Price == "" && member.Price != "" {
			base.Price = member.Price
		}
		if base.Phone == "" && member.Phone != "" {
			base.Phone = member.Phone
		}
		if base.ImageURL == "" && member.ImageURL != "" {
			base.ImageURL = member.ImageURL
		}
		if base.URL == "" && member.URL != "" {
			base.URL = member.URL
		}

		for _, category := range member.Categories {
			if _, ok := seenCategories[category]; !ok {
				seenCategories[category] = struct{}{}
				categories = append(categories, category)
			}
		}
	}

	base.Reviews = allReviews
	base.Sources = allSources
	base.Categories = categories

	if base.ReviewCount == 0 && len(allReviews) > 0 {
		base.ReviewCount = len(allReviews)
	}

	return base
}
