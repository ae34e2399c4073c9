package providers

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// Veterinary business detection over the Yelp academic dataset.
var (
	yelpVetCategories = []string{"veterinarians", "pet services", "animal hospitals", "pet health"}
	yelpVetKeywords   = []string{"veterinar", "animal hospital", "pet clinic", "animal clinic", "pet hospital"}
)

// yelpBusinessFileNames are tried in order inside the dataset directory.
var yelpBusinessFileNames = []string{
	"yelp_academic_dataset_business.json",
	"business.json",
	"yelp_business.json",
}

var yelpReviewFileNames = []string{
	"yelp_academic_dataset_review.json",
	"review.json",
	"yelp_review.json",
}

// YelpDatasetProvider serves veterinary businesses from a local copy of
// the Yelp academic dataset (JSON-lines business and review files).
// The dataset is loaded once on first fetch; reviews are indexed by
// business in the same pass.
type YelpDatasetProvider struct {
	config   common.YelpDatasetConfig
	geocoder interfaces.GeocodingService
	logger   arbor.ILogger

	loadOnce sync.Once
	loadErr  error

	businesses []yelpBusiness
	reviews    map[string][]yelpReview
}

type yelpBusiness struct {
	BusinessID  string                     `json:"business_id"`
	Name        string                     `json:"name"`
	Address     string                     `json:"address"`
	City        string                     `json:"city"`
	State       string                     `json:"state"`
	PostalCode  string                     `json:"postal_code"`
	Latitude    float64                    `json:"latitude"`
	Longitude   float64                    `json:"longitude"`
	Stars       float64                    `json:"stars"`
	ReviewCount int                        `json:"review_count"`
	IsOpen      int                        `json:"is_open"`
	Categories  string                     `json:"categories"`
	Attributes  map[string]json.RawMessage `json:"attributes"`
}

type yelpReview struct {
	ReviewID   string  `json:"review_id"`
	BusinessID string  `json:"business_id"`
	UserID     string  `json:"user_id"`
	Stars      float64 `json:"stars"`
	Text       string  `json:"text"`
	Date       string  `json:"date"`
}

// NewYelpDatasetProvider creates a dataset provider. The dataset is not
// touched until the first Fetch.
func NewYelpDatasetProvider(config common.YelpDatasetConfig, geocoder interfaces.GeocodingService, logger arbor.ILogger) *YelpDatasetProvider {
	return &YelpDatasetProvider{
		config:   config,
		geocoder: geocoder,
		logger:   logger,
		reviews:  make(map[string][]yelpReview),
	}
}

// Name implements interfaces.Provider.
func (p *YelpDatasetProvider) Name() string {
	return "yelp_dataset"
}

// Fetch implements interfaces.Provider. Businesses match by city text
// or by distance from the geocoded location when coordinates resolve.
func (p *YelpDatasetProvider) Fetch(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error) {
	p.loadOnce.Do(func() { p.loadErr = p.load() })
	if p.loadErr != nil {
		return nil, fmt.Errorf("yelp dataset load: %w", p.loadErr)
	}

	cityMatch := strings.ToLower(strings.TrimSpace(strings.Split(location, ",")[0]))

	var center models.Coordinates
	haveCenter := false
	if p.geocoder != nil {
		if coords, err := p.geocoder.Geocode(ctx, location); err == nil {
			center = coords
			haveCenter = true
		}
	}

	radius := p.config.RadiusMiles
	if radius <= 0 {
		radius = 10
	}

	records := make([]models.RawRecord, 0, maxResults)
	for _, business := range p.businesses {
		if maxResults > 0 && len(records) >= maxResults {
			break
		}

		matched := false
		city := strings.ToLower(business.City)
		if cityMatch != "" && city != "" && containsEitherWay(cityMatch, city) {
			matched = true
		}
		if !matched && cityMatch != "" && strings.Contains(strings.ToLower(business.Address), cityMatch) {
			matched = true
		}
		if !matched && haveCenter && business.Latitude != 0 && business.Longitude != 0 {
			distance := common.HaversineMiles(center.Latitude, center.Longitude, business.Latitude, business.Longitude)
			if distance <= radius {
				matched = true
			}
		}

		if matched {
			records = append(records, p.formatBusiness(business))
		}
	}

	if p.logger != nil {
		p.logger.Debug().
			Str("location", location).
			Int("matches", len(records)).
			Msg("Yelp dataset lookup complete")
	}

	return records, nil
}

// load reads the business file, keeps veterinary businesses, then
// indexes the review file for just those businesses.
func (p *YelpDatasetProvider) load() error {
	if p.config.Path == "" {
		return fmt.Errorf("dataset path not configured")
	}

	businessFile, err := findDatasetFile(p.config.Path, yelpBusinessFileNames)
	if err != nil {
		return err
	}
	reviewFile, err := findDatasetFile(p.config.Path, yelpReviewFileNames)
	if err != nil {
		return err
	}

	if err := readJSONLines(businessFile, func(line []byte) error {
		var business yelpBusiness
		if err := json.Unmarshal(line, &business); err != nil {
			return nil // skip malformed lines
		}
		if isVetBusiness(business) {
			p.businesses = append(p.businesses, business)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("reading %s: %w", businessFile, err)
	}

	vetIDs := make(map[string]struct{}, len(p.businesses))
	for _, business := range p.businesses {
		vetIDs[business.BusinessID] = struct{}{}
	}

	maxReviews := p.config.MaxReviews
	if maxReviews <= 0 {
		maxReviews = 20
	}

	if err := readJSONLines(reviewFile, func(line []byte) error {
		var review yelpReview
		if err := json.Unmarshal(line, &review); err != nil {
			return nil
		}
		if _, ok := vetIDs[review.BusinessID]; !ok {
			return nil
		}
		if len(p.reviews[review.BusinessID]) < maxReviews*2 {
			p.reviews[review.BusinessID] = append(p.reviews[review.BusinessID], review)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("reading %s: %w", reviewFile, err)
	}

	// Newest first, then cap at the configured count.
	for id, reviews := range p.reviews {
		sort.Slice(reviews, func(i, j int) bool {
			return reviews[i].Date > reviews[j].Date
		})
		if len(reviews) > maxReviews {
			reviews = reviews[:maxReviews]
		}
		p.reviews[id] = reviews
	}

	if p.logger != nil {
		p.logger.Info().
			Int("businesses", len(p.businesses)).
			Int("businesses_with_reviews", len(p.reviews)).
			Msg("Loaded veterinary businesses from Yelp dataset")
	}

	return nil
}

func (p *YelpDatasetProvider) formatBusiness(business yelpBusiness) models.RawRecord {
	var reviews []interface{}
	for _, review := range p.reviews[business.BusinessID] {
		reviews = append(reviews, map[string]interface{}{
			"id":           review.ReviewID,
			"rating":       review.Stars,
			"text":         review.Text,
			"time_created": review.Date,
			"author_name":  review.UserID,
		})
	}

	addr2 := strings.TrimSpace(fmt.Sprintf("%s, %s %s", business.City, business.State, business.PostalCode))
	var displayAddress []interface{}
	if business.Address != "" {
		displayAddress = append(displayAddress, business.Address)
	}
	if addr2 != "," {
		displayAddress = append(displayAddress, addr2)
	}

	return models.RawRecord{
		"id":           business.BusinessID,
		"name":         business.Name,
		"rating":       business.Stars,
		"review_count": business.ReviewCount,
		"price":        yelpPriceTier(business.Attributes),
		"phone":        "",
		"location":     map[string]interface{}{"display_address": displayAddress},
		"coordinates": map[string]interface{}{
			"latitude":  business.Latitude,
			"longitude": business.Longitude,
		},
		"categories": business.Categories,
		"reviews":    reviews,
		"is_closed":  business.IsOpen == 0,
		"source":     p.Name(),
	}
}

// yelpPriceTier maps the RestaurantsPriceRange2 attribute ("1".."4")
// into a dollar-sign tier; absence leaves the price empty for the
// normalizer default.
func yelpPriceTier(attributes map[string]json.RawMessage) string {
	raw, ok := attributes["RestaurantsPriceRange2"]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 4 {
		return ""
	}
	return strings.Repeat("$", n)
}

func isVetBusiness(business yelpBusiness) bool {
	if business.Categories != "" {
		for _, category := range strings.Split(business.Categories, ",") {
			category = strings.ToLower(strings.TrimSpace(category))
			for _, vetCategory := range yelpVetCategories {
				if category == vetCategory {
					return true
				}
			}
		}
	}

	name := strings.ToLower(business.Name)
	for _, keyword := range yelpVetKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}

	return false
}

// findDatasetFile tries each candidate name in dir, with a .gz variant
// for each.
func findDatasetFile(dir string, names []string) (string, error) {
	for _, name := range names {
		for _, candidate := range []string{name, name + ".gz"} {
			path := filepath.Join(dir, candidate)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("none of %v found in %s", names, dir)
}

// readJSONLines streams a JSON-lines file, gzipped or plain, calling fn
// for each non-empty line.
func readJSONLines(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		reader = gz
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func containsEitherWay(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
