package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/sridhs21/PCVF/internal/models"
)

const (
	// FoursquareBaseURL is the Foursquare Places v3 endpoint.
	FoursquareBaseURL = "https://api.foursquare.com/v3"

	// foursquareVetCategory is the Places category ID for veterinarians.
	foursquareVetCategory = "19032"

	// foursquareMaxLimit is the API's hard cap per search request.
	foursquareMaxLimit = 50

	foursquareSearchFields = "fsq_id,name,location,geocodes,photos,hours,rating,stats,price,website,tel,categories"
)

// FoursquareProvider fetches veterinary places from the Foursquare
// Places API, enriching each place with its most popular tips as
// review text.
type FoursquareProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// FoursquareOption configures the provider.
type FoursquareOption func(*FoursquareProvider)

// WithFoursquareBaseURL sets a custom endpoint, used by tests.
func WithFoursquareBaseURL(baseURL string) FoursquareOption {
	return func(p *FoursquareProvider) {
		p.baseURL = baseURL
	}
}

// NewFoursquareProvider creates a Foursquare provider.
func NewFoursquareProvider(apiKey string, rateLimit float64, timeout time.Duration, logger arbor.ILogger, opts ...FoursquareOption) *FoursquareProvider {
	if rateLimit <= 0 {
		rateLimit = 2
	}
	p := &FoursquareProvider{
		baseURL:    FoursquareBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements interfaces.Provider.
func (p *FoursquareProvider) Name() string {
	return "foursquare"
}

type foursquareSearchResponse struct {
	Results []foursquarePlace `json:"results"`
}

type foursquarePlace struct {
	FsqID    string `json:"fsq_id"`
	Name     string `json:"name"`
	Geocodes struct {
		Main struct {
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"main"`
	} `json:"geocodes"`
	Location struct {
		Address  string `json:"address"`
		Locality string `json:"locality"`
		Region   string `json:"region"`
		Postcode string `json:"postcode"`
	} `json:"location"`
	Categories []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Photos []struct {
		Prefix string `json:"prefix"`
		Suffix string `json:"suffix"`
	} `json:"photos"`
	Rating float64 `json:"rating"` // 10-point scale
	Stats  struct {
		TotalTips int `json:"total_tips"`
	} `json:"stats"`
	Price   int    `json:"price"`
	Website string `json:"website"`
	Tel     string `json:"tel"`
}

type foursquareTipsResponse struct {
	Results []struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

// Fetch implements interfaces.Provider. Each result costs one extra
// request for tips, so maxResults directly bounds request volume.
func (p *FoursquareProvider) Fetch(ctx context.Context, location string, maxResults int) ([]models.RawRecord, error) {
	if maxResults <= 0 || maxResults > foursquareMaxLimit {
		maxResults = foursquareMaxLimit
	}

	params := url.Values{}
	params.Set("query", "veterinarian")
	params.Set("categories", foursquareVetCategory)
	params.Set("sort", "RELEVANCE")
	params.Set("limit", strconv.Itoa(maxResults))
	params.Set("fields", foursquareSearchFields)
	if isCoordinatePair(location) {
		params.Set("ll", strings.ReplaceAll(location, " ", ""))
		params.Set("radius", "10000")
	} else {
		params.Set("near", location)
	}

	var search foursquareSearchResponse
	if err := p.get(ctx, "/places/search", params, &search); err != nil {
		return nil, fmt.Errorf("foursquare search: %w", err)
	}

	records := make([]models.RawRecord, 0, len(search.Results))
	for _, place := range search.Results {
		if place.FsqID == "" {
			continue
		}

		tips, err := p.fetchTips(ctx, place.FsqID)
		if err != nil && p.logger != nil {
			p.logger.Warn().
				Str("place_id", place.FsqID).
				Err(err).
				Msg("Failed to fetch Foursquare tips, continuing without reviews")
		}

		records = append(records, p.formatPlace(place, tips))
		if len(records) >= maxResults {
			break
		}
	}

	return records, nil
}

func (p *FoursquareProvider) fetchTips(ctx context.Context, placeID string) (*foursquareTipsResponse, error) {
	params := url.Values{}
	params.Set("limit", "20")
	params.Set("sort", "POPULAR")

	var tips foursquareTipsResponse
	if err := p.get(ctx, "/places/"+placeID+"/tips", params, &tips); err != nil {
		return nil, err
	}
	return &tips, nil
}

// formatPlace maps a place plus its tips into the shared raw record
// shape. Foursquare ratings are on a 10-point scale and left as-is for
// normalization to halve.
func (p *FoursquareProvider) formatPlace(place foursquarePlace, tips *foursquareTipsResponse) models.RawRecord {
	var displayAddress []interface{}
	for _, part := range []string{place.Location.Address, place.Location.Locality, place.Location.Region, place.Location.Postcode} {
		if part != "" {
			displayAddress = append(displayAddress, part)
		}
	}

	var categories []interface{}
	for _, category := range place.Categories {
		categories = append(categories, map[string]interface{}{"title": category.Name})
	}

	imageURL := ""
	if len(place.Photos) > 0 && place.Photos[0].Prefix != "" && place.Photos[0].Suffix != "" {
		imageURL = place.Photos[0].Prefix + "original" + place.Photos[0].Suffix
	}

	var reviews []interface{}
	if tips != nil {
		for _, tip := range tips.Results {
			reviews = append(reviews, map[string]interface{}{
				"id":           tip.ID,
				"rating":       place.Rating / 2,
				"text":         tip.Text,
				"time_created": tip.CreatedAt,
				"author_name":  tip.User.Name,
			})
		}
	}

	price := ""
	if place.Price > 0 {
		price = strings.Repeat("$", place.Price)
	}

	return models.RawRecord{
		"id":           place.FsqID,
		"name":         place.Name,
		"rating":       place.Rating,
		"review_count": place.Stats.TotalTips,
		"price":        price,
		"phone":        place.Tel,
		"location":     map[string]interface{}{"display_address": displayAddress},
		"coordinates": map[string]interface{}{
			"latitude":  place.Geocodes.Main.Latitude,
			"longitude": place.Geocodes.Main.Longitude,
		},
		"image_url":  imageURL,
		"url":        place.Website,
		"categories": categories,
		"reviews":    reviews,
		"source":     p.Name(),
	}
}

func (p *FoursquareProvider) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", p.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("foursquare API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// isCoordinatePair reports whether location parses as "lat,lng".
func isCoordinatePair(location string) bool {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return false
	}
	for _, part := range parts {
		if _, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			return false
		}
	}
	return true
}
