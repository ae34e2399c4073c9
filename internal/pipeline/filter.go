package pipeline

import (
	"sort"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/models"
)

// Ranker applies user criteria and produces the final ordered list.
// Top-N truncation is the recommender's concern, not this step's.
type Ranker struct {
	logger arbor.ILogger
}

// NewRanker creates a ranker.
func NewRanker(logger arbor.ILogger) *Ranker {
	return &Ranker{logger: logger}
}

// FilterAndRank applies the criteria filters in order (pet type, price,
// distance, specialties) and then sorts by composite score when scored,
// otherwise by raw rating, descending. The final sort is authoritative
// and supersedes the distance-ascending order the distance step leaves
// behind.
func (r *Ranker) FilterAndRank(listings []models.Listing, criteria models.SearchCriteria) []models.Listing {
	if len(listings) == 0 {
		return []models.Listing{}
	}

	filtered := append([]models.Listing(nil), listings...)

	if strings.EqualFold(criteria.PetType, "exotic") {
		filtered = keep(filtered, func(l models.Listing) bool {
			return l.HandlesExotic
		})
	}

	if criteria.PricePreference != "" {
		// Looser (shorter) price tiers pass; an unknown price always passes.
		filtered = keep(filtered, func(l models.Listing) bool {
			return len(l.Price) <= len(criteria.PricePreference)
		})
	}

	if criteria.UserLocation != nil && criteria.MaxDistance > 0 {
		filtered = r.filterByDistance(filtered, *criteria.UserLocation, criteria.MaxDistance)
	}

	if wanted := specialtyTerms(criteria.Specialties); len(wanted) > 0 {
		filtered = keep(filtered, func(l models.Listing) bool {
			return matchesAnySpecialty(l.Categories, wanted)
		})
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Scored || filtered[j].Scored {
			return filtered[i].CompositeScore > filtered[j].CompositeScore
		}
		return filtered[i].Rating > filtered[j].Rating
	})

	if r.logger != nil {
		r.logger.Debug().
			Int("input", len(listings)).
			Int("output", len(filtered)).
			Msg("Filtering complete")
	}

	return filtered
}

// filterByDistance keeps listings within maxDistance miles (inclusive)
// of the user, attaching a computed distance where none exists, and
// leaves the survivors ordered nearest-first.
func (r *Ranker) filterByDistance(listings []models.Listing, user models.Coordinates, maxDistance float64) []models.Listing {
	within := make([]models.Listing, 0, len(listings))
	for _, listing := range listings {
		distance := listing.Distance
		if distance == 0 {
			if !listing.HasCoordinates() {
				continue
			}
			distance = common.HaversineMiles(
				user.Latitude, user.Longitude,
				listing.Coordinates.Latitude, listing.Coordinates.Longitude)
			listing.Distance = distance
		}
		if distance <= maxDistance {
			within = append(within, listing)
		}
	}

	sort.SliceStable(within, func(i, j int) bool {
		return within[i].Distance < within[j].Distance
	})

	return within
}

// specialtyTerms returns the specialty filters to apply. ["general"]
// alone means "no specialty filtering"; "general" entries are dropped
// from mixed lists.
func specialtyTerms(specialties []string) []string {
	var terms []string
	for _, specialty := range specialties {
		if strings.EqualFold(specialty, "general") {
			continue
		}
		if specialty != "" {
			terms = append(terms, strings.ToLower(specialty))
		}
	}
	return terms
}

// matchesAnySpecialty reports whether any requested term appears as a
// substring of the joined category text (logical OR).
func matchesAnySpecialty(categories []string, terms []string) bool {
	joined := strings.ToLower(strings.Join(categories, " "))
	for _, term := range terms {
		if strings.Contains(joined, term) {
			return true
		}
	}
	return false
}

func keep(listings []models.Listing, predicate func(models.Listing) bool) []models.Listing {
	kept := listings[:0]
	for _, listing := range listings {
		if predicate(listing) {
			kept = append(kept, listing)
		}
	}
	return kept
}
