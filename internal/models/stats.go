package models

// CategoryCount is one entry of the category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DatasetStats aggregates dataset-level quality metrics for a batch of
// listings, produced by the stats reporter for observability.
type DatasetStats struct {
	ListingCount int `json:"listing_count"`

	// Completeness maps key field name to the percentage of listings
	// carrying a usable value for it.
	Completeness map[string]float64 `json:"completeness"`

	// QualityScore is the average completeness expressed in [0,1].
	QualityScore float64 `json:"quality_score"`

	CategoryCount int             `json:"category_count"`
	TopCategories []CategoryCount `json:"top_categories"`

	ExoticCount   int     `json:"exotic_count"`
	ExoticPercent float64 `json:"exotic_percent"`

	ReviewCount       int     `json:"review_count"`
	AvgReviewsPerItem float64 `json:"avg_reviews_per_listing"`

	// SourceCounts maps provider tag to the number of listings it
	// contributed to.
	SourceCounts map[string]int `json:"source_counts"`
}
