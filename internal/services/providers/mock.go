package providers

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// Default center when the location cannot be geocoded (Manhattan).
var mockDefaultCenter = models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}

var (
	mockNamePrefixes = []string{"Downtown ", "Uptown ", "West ", "East ", "North ", "South "}
	mockNameCores    = []string{
		"Animal Hospital", "Veterinary Clinic", "Pet Hospital", "Vet Center",
		"Animal Clinic", "Pet Care", "Animal Care", "Veterinary Hospital",
	}
	mockSpecialties = []string{
		"Animal Hospital", "Pet Care", "Emergency Vet",
		"Surgery Center", "Dental Services", "Exotic Pets",
		"Avian Care", "Holistic Medicine", "Pet Rehabilitation",
	}
	mockReviewTemplates = []string{
		"Great vet clinic with caring staff. They took excellent care of our %s.",
		"Dr. %s was amazing with our nervous %s. Highly recommended!",
		"Clean facility with professional staff. Reasonable prices for %s care.",
		"Been taking our %s here for years. They're always thorough and compassionate.",
		"The staff is so gentle with our %s. They make visits much easier.",
		"Very knowledgeable doctors and friendly staff. Our %s actually enjoys going there!",
	}
	mockPetTypes    = []string{"dog", "cat", "pet", "puppy", "kitten"}
	mockDoctorNames = []string{"Smith", "Jones", "Williams", "Brown", "Davis", "Miller", "Wilson", "Johnson", "Lee", "Garcia"}
)

// MockProvider generates synthetic listings around a location. It is
// the fallback when every real provider comes back empty, keeping the
// search surface usable in development and demos.
type MockProvider struct {
	geocoder interfaces.GeocodingService
	logger   arbor.ILogger
	rand     *rand.Rand
}

// NewMockProvider creates a mock provider.
func NewMockProvider(geocoder interfaces.GeocodingService, logger arbor.ILogger) *MockProvider {
	return &MockProvider{
		geocoder: geocoder,
		logger:   logger,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Name implements interfaces.Provider.
func (p *MockProvider) Name() string {
	return "mock_data"
}

// Fetch implements interfaces.Provider. Generated records scatter
// within roughly a mile of the resolved center and carry plausible
// ratings, reviews, and categories.
func (p *MockProvider) Fetch(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	center := mockDefaultCenter
	if p.geocoder != nil {
		if coords, err := p.geocoder.Geocode(ctx, location); err == nil {
			center = coords
		}
	}

	city := strings.TrimSpace(strings.Split(location, ",")[0])
	if city == "" {
		city = "Unknown City"
	}

	if p.logger != nil {
		p.logger.Info().
			Str("location", location).
			Int("count", maxResults).
			Msg("Generating synthetic listings")
	}

	records := make([]models.RawRecord, 0, maxResults)
	for i := 0; i < maxResults; i++ {
		records = append(records, p.generate(city, center, i))
	}
	return records, nil
}

func (p *MockProvider) generate(city string, center models.Coordinates, i int) models.RawRecord {
	core := mockNameCores[p.rand.Intn(len(mockNameCores))]
	name := city + " " + core
	if p.rand.Intn(2) == 0 {
		name = mockNamePrefixes[p.rand.Intn(len(mockNamePrefixes))] + core
	}

	rating := 3.2 + float64(hashName(name))/56.0 + (p.rand.Float64()-0.5)*0.4
	rating = clampFloat(roundTo(rating, 1), 3.0, 5.0)

	reviewCount := 20 + int((rating-3)*50) + p.rand.Intn(26) - 10
	if reviewCount < 5 {
		reviewCount = 5
	}

	categories := []interface{}{"Veterinarian"}
	numSpecialties := int((rating - 3) * 2)
	if numSpecialties > 3 {
		numSpecialties = 3
	}
	if numSpecialties < 0 {
		numSpecialties = 0
	}
	for _, idx := range p.rand.Perm(len(mockSpecialties))[:numSpecialties] {
		categories = append(categories, mockSpecialties[idx])
	}

	price := "$"
	switch {
	case rating >= 4.7:
		price = "$$$"
	case rating >= 4.0:
		price = "$$"
	}

	// Weaker clinics land farther away.
	distance := roundTo(
		(0.5+p.rand.Float64()*4.5)*(1+(5-rating)/2), 1)

	template := mockReviewTemplates[p.rand.Intn(len(mockReviewTemplates))]
	pet := mockPetTypes[p.rand.Intn(len(mockPetTypes))]
	var reviewText string
	if strings.Count(template, "%s") == 2 {
		reviewText = fmt.Sprintf(template, mockDoctorNames[p.rand.Intn(len(mockDoctorNames))], pet)
	} else {
		reviewText = fmt.Sprintf(template, pet)
	}
	review := map[string]interface{}{
		"id":           "mock-review-" + uuid.NewString(),
		"rating":       clampFloat(roundTo(rating+p.rand.Float64()-0.5, 0), 3, 5),
		"text":         reviewText,
		"time_created": time.Now().AddDate(0, 0, -(1 + p.rand.Intn(90))).Format(time.RFC3339),
		"author_name":  fmt.Sprintf("MockUser%d", 100+p.rand.Intn(900)),
	}

	return models.RawRecord{
		"id":   "mock-" + uuid.NewString(),
		"name": name,
		"coordinates": map[string]interface{}{
			"latitude":  center.Latitude + (p.rand.Float64()-0.5)*0.02,
			"longitude": center.Longitude + (p.rand.Float64()-0.5)*0.02,
		},
		"rating":       rating,
		"review_count": reviewCount,
		"price":        price,
		"phone":        fmt.Sprintf("+1%03d%03d%04d", 100+p.rand.Intn(900), 100+p.rand.Intn(900), 1000+p.rand.Intn(9000)),
		"address":      fmt.Sprintf("%d Main St, %s", 100+p.rand.Intn(9900), city),
		"url":          "https://example.com/" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
		"categories":   categories,
		"reviews":      []interface{}{review},
		"distance":     distance,
		"source":       p.Name(),
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundTo(v float64, decimals int) float64 {
	scale := 1.0
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	if decimals == 0 {
		scale = 1
	}
	return float64(int(v*scale+0.5)) / scale
}
