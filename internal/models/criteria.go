package models

// DefaultTopN is the number of recommendations returned when the caller
// does not specify one.
const DefaultTopN = 5

// SearchCriteria carries the user-supplied constraints applied by the
// filter/rank engine and the recommender.
type SearchCriteria struct {
	// LocationText is free-form ("Boston" or "42.36,-71.06"); resolved
	// by the geocoding service before providers are queried.
	LocationText string `json:"location" validate:"required"`

	// PetType filters listings; only "exotic" has filtering semantics.
	PetType string `json:"pet_type,omitempty"`

	// PricePreference is a tier string such as "$$". Listings with a
	// longer (more expensive) tier are excluded.
	PricePreference string `json:"price,omitempty" validate:"omitempty,oneof=$ $$ $$$ $$$$"`

	// MaxDistance in miles. Zero disables distance filtering.
	MaxDistance float64 `json:"max_distance,omitempty" validate:"gte=0"`

	// Specialties are OR-matched against category text. ["general"]
	// alone means no specialty filtering.
	Specialties []string `json:"specialties,omitempty"`

	// UserLocation, when known, anchors distance computation.
	UserLocation *Coordinates `json:"user_location,omitempty"`

	// TopN caps the result list. Zero means DefaultTopN.
	TopN int `json:"top_n,omitempty" validate:"gte=0,lte=50"`
}

// ResultTopN returns the effective result cap.
func (c *SearchCriteria) ResultTopN() int {
	if c.TopN <= 0 {
		return DefaultTopN
	}
	return c.TopN
}
