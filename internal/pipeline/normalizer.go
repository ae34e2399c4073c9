package pipeline

import (
	"math"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/models"
)

// Normalizer maps raw provider payloads into canonical listings.
// Malformed or missing fields degrade to documented defaults; Normalize
// never fails.
type Normalizer struct {
	logger arbor.ILogger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger arbor.ILogger) *Normalizer {
	return &Normalizer{logger: logger}
}

// NormalizeBatch normalizes a batch of raw records. Records that cannot
// be minimally parsed (nil or empty) are logged and dropped.
func (n *Normalizer) NormalizeBatch(raw []models.RawRecord) []models.Listing {
	listings := make([]models.Listing, 0, len(raw))
	dropped := 0
	for _, record := range raw {
		if len(record) == 0 {
			dropped++
			continue
		}
		listings = append(listings, n.Normalize(record))
	}

	if dropped > 0 && n.logger != nil {
		n.logger.Warn().
			Int("dropped", dropped).
			Int("kept", len(listings)).
			Msg("Dropped unparseable raw records from batch")
	}

	return listings
}

// Normalize maps one raw provider record into the canonical listing
// shape. Pure transform with no side effects.
func (n *Normalizer) Normalize(raw models.RawRecord) models.Listing {
	listing := models.Listing{
		ID:     raw.GetString("id"),
		Name:   raw.GetString("name"),
		Source: raw.Source(),
	}

	listing.Coordinates = extractCoordinates(raw)
	listing.Address = extractAddress(raw)

	// Providers on a 10-point scale are halved into [0,5].
	if rating, ok := raw.GetFloat("rating"); ok {
		if rating > 5 {
			rating = rating / 2
		}
		listing.Rating = rating
	}

	listing.ReviewCount, _ = raw.GetInt("review_count")

	if price := raw.GetString("price"); price != "" {
		listing.Price = price
	} else {
		listing.Price = defaultPrice
	}

	listing.Phone = raw.GetString("phone")
	listing.ImageURL = raw.GetString("image_url")
	listing.URL = raw.GetString("url")
	if listing.URL == "" {
		listing.URL = raw.GetString("website")
	}

	listing.Categories = extractCategories(raw["categories"])
	listing.Reviews = extractReviews(raw["reviews"])

	listing.HandlesExotic = raw.GetBool("handles_exotic") || hasExoticCategory(listing.Categories)

	// A distance above the meters threshold is assumed to be meters and
	// converted to miles; either way it is rounded to one decimal.
	if distance, ok := raw.GetFloat("distance"); ok {
		if distance > metersThreshold {
			distance = distance / metersPerMile
		}
		listing.Distance = math.Round(distance*10) / 10
	}

	listing.Sources = extractSources(raw, listing.Source)

	return listing
}

// extractCoordinates reads any of the provider-specific coordinate
// shapes. Unknown shapes yield the (0,0) absent sentinel.
func extractCoordinates(raw models.RawRecord) models.Coordinates {
	if coords := raw.GetMap("coordinates"); coords != nil {
		return models.Coordinates{
			Latitude:  mapFloat(coords, "latitude"),
			Longitude: mapFloat(coords, "longitude"),
		}
	}
	if pos := raw.GetMap("position"); pos != nil {
		return models.Coordinates{
			Latitude:  mapFloat(pos, "lat"),
			Longitude: mapFloat(pos, "lng"),
		}
	}
	if geometry := raw.GetMap("geometry"); geometry != nil {
		if loc, ok := geometry["location"].(map[string]interface{}); ok {
			return models.Coordinates{
				Latitude:  mapFloat(loc, "lat"),
				Longitude: mapFloat(loc, "lng"),
			}
		}
	}
	return models.Coordinates{}
}

// extractAddress prefers a display-address array, then flat address
// fields; defaults to empty.
func extractAddress(raw models.RawRecord) string {
	if location := raw.GetMap("location"); location != nil {
		if display, ok := location["display_address"].([]interface{}); ok {
			parts := make([]string, 0, len(display))
			for _, p := range display {
				if s, ok := p.(string); ok {
					parts = append(parts, s)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
		if display, ok := location["display_address"].([]string); ok && len(display) > 0 {
			return strings.Join(display, ", ")
		}
	}
	if addr := raw.GetString("address"); addr != "" {
		return addr
	}
	return raw.GetString("formatted_address")
}

// extractCategories accepts a list of strings, a list of {title}
// objects, or a comma-separated string. Source order is preserved and
// duplicates are kept at this stage.
func extractCategories(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		categories := make([]string, 0, len(v))
		for _, item := range v {
			switch cat := item.(type) {
			case string:
				categories = append(categories, cat)
			case map[string]interface{}:
				if title, ok := cat["title"].(string); ok {
					categories = append(categories, title)
				}
			}
		}
		return categories
	case string:
		parts := strings.Split(v, ",")
		categories := make([]string, 0, len(parts))
		for _, p := range parts {
			categories = append(categories, strings.TrimSpace(p))
		}
		return categories
	}
	return []string{}
}

// extractReviews converts provider review payloads. Unknown entries are
// skipped rather than erroring.
func extractReviews(value interface{}) []models.Review {
	switch v := value.(type) {
	case []models.Review:
		return append([]models.Review(nil), v...)
	case []interface{}:
		reviews := make([]models.Review, 0, len(v))
		for _, item := range v {
			entry, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			review := models.Review{
				ID:          mapString(entry, "id"),
				Rating:      mapFloat(entry, "rating"),
				Text:        mapString(entry, "text"),
				TimeCreated: mapString(entry, "time_created"),
				AuthorName:  mapString(entry, "author_name"),
				Source:      mapString(entry, "source"),
			}
			if review.AuthorName == "" {
				if user, ok := entry["user"].(map[string]interface{}); ok {
					review.AuthorName = mapString(user, "name")
				}
			}
			reviews = append(reviews, review)
		}
		return reviews
	}
	return []models.Review{}
}

// extractSources keeps an existing sources list (merged records round-
// tripping through normalization) or defaults to the record's own tag.
func extractSources(raw models.RawRecord, source string) []string {
	if list, ok := raw["sources"].([]interface{}); ok {
		sources := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				sources = append(sources, s)
			}
		}
		if len(sources) > 0 {
			return sources
		}
	}
	if list, ok := raw["sources"].([]string); ok && len(list) > 0 {
		return append([]string(nil), list...)
	}
	return []string{source}
}

func hasExoticCategory(categories []string) bool {
	joined := strings.ToLower(strings.Join(categories, " "))
	for _, keyword := range exoticKeywords {
		if strings.Contains(joined, keyword) {
			return true
		}
	}
	return false
}

func mapFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func mapString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}
