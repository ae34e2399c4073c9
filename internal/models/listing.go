package models

// Coordinates is a latitude/longitude pair. The zero value is the
// "coordinates absent" sentinel, not a valid point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsZero reports whether the coordinates are the absent sentinel.
func (c Coordinates) IsZero() bool {
	return c.Latitude == 0 || c.Longitude == 0
}

// Review is a single customer review attached to a listing. Reviews are
// immutable once attached; merging only appends.
type Review struct {
	ID          string  `json:"id"`
	Rating      float64 `json:"rating"`
	Text        string  `json:"text"`
	TimeCreated string  `json:"time_created"` // provider-native timestamp, never reparsed
	AuthorName  string  `json:"author_name,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// Listing is the canonical, provider-agnostic record for one veterinary
// business. The normalizer produces one per raw provider record; the
// dedup/merge engine consumes listings and produces new merged ones.
type Listing struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Coordinates   Coordinates `json:"coordinates"`
	Rating        float64     `json:"rating"`
	ReviewCount   int         `json:"review_count"`
	Price         string      `json:"price"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	ImageURL      string      `json:"image_url"`
	URL           string      `json:"url"`
	Categories    []string    `json:"categories"`
	HandlesExotic bool        `json:"handles_exotic"`

	// Distance in miles from the query point. Zero means unset.
	Distance float64 `json:"distance,omitempty"`

	Reviews []Review `json:"reviews"`

	// Source is the tag of the provider that emitted this record.
	// Sources is the ordered first-seen union of contributing providers
	// and is never empty once a listing exists.
	Source  string   `json:"source"`
	Sources []string `json:"sources"`

	// Attached by the scoring engine. CompositeScore is in [0,1];
	// Scored distinguishes "not yet scored" from a genuine zero.
	CompositeScore        float64  `json:"composite_score"`
	Scored                bool     `json:"-"`
	RecommendationReasons []string `json:"recommendation_reasons,omitempty"`
}

// HasCoordinates reports whether the listing carries a usable location.
func (l *Listing) HasCoordinates() bool {
	return !l.Coordinates.IsZero()
}
