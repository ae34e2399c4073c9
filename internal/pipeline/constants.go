// Package pipeline implements the record reconciliation and ranking
// core: normalization of provider payloads into canonical listings,
// fuzzy dedup/merge across sources, composite scoring, and
// criteria-based filtering and ranking. Every stage is a pure transform
// over in-memory collections; empty input yields empty output.
package pipeline

// CoordinatePrecision is the number of decimal places latitude and
// longitude are rounded to when building the dedup location key.
// 4 decimals is roughly 11 meters. Changing this changes which records
// are considered co-located and therefore changes merge semantics.
const CoordinatePrecision = 4

// NameSimilarityThreshold is the word-set Jaccard similarity two name
// keys must exceed to be grouped at the same location. Changing it
// changes merge semantics and must be a conscious, tested decision.
const NameSimilarityThreshold = 0.7

// metersThreshold marks distance values assumed to be meters rather
// than miles; larger values are converted with metersPerMile.
const (
	metersThreshold = 100
	metersPerMile   = 1609.34
)

// defaultPrice is the tier assumed when a provider reports none.
const defaultPrice = "$$"

// exoticKeywords flag a listing as handling exotic pets when any
// category text contains one of them.
var exoticKeywords = []string{"exotic", "bird", "reptile", "avian", "amphibian", "zoo"}

// vetNameMarkers trigger name simplification for the dedup name key.
var vetNameMarkers = []string{"animal hospital", "vet", "veterinary"}

// vetNameTokens are stripped from names containing a marker.
var vetNameTokens = []string{"animal", "hospital", "vet", "veterinary", "clinic", "care"}

// nameStopwords are removed before Jaccard similarity is computed.
var nameStopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "for": {}, "a": {}, "&": {},
}

// sourcePriority breaks provenance-score ties toward richer sources
// during merge base selection.
var sourcePriority = map[string]int{
	"yelp_dataset": 5,
	"foursquare":   3,
	"here":         2,
	"tomtom":       1,
}

// Composite score blend weights.
const (
	ratingWeight      = 0.7
	reviewCountWeight = 0.3
)

// lowEvidenceReviewCount is the review count below which the rating
// contribution is halved.
const lowEvidenceReviewCount = 3
