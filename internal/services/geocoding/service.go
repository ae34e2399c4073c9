// Package geocoding resolves free-form location text to coordinates
// using the Nominatim API with literal coordinate parsing and a static
// city table as fallbacks. Results are cached in-process for the life
// of the service.
package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

const (
	// DefaultBaseURL is the Nominatim endpoint.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 5 * time.Second

	// DefaultRateLimit follows the Nominatim usage policy of one
	// request per second.
	DefaultRateLimit = 1
)

// Service implements interfaces.GeocodingService. Safe for concurrent
// use.
type Service struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter

	mu    sync.RWMutex
	cache map[string]models.Coordinates
}

// Option configures the Service.
type Option func(*Service)

// WithBaseURL sets a custom endpoint, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

// WithRateLimit sets a custom rate limit in requests per second.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(s *Service) {
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// NewService creates a geocoding service from configuration.
func NewService(config common.GeocodingConfig, logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		baseURL:   DefaultBaseURL,
		userAgent: config.UserAgent,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		cache:   make(map[string]models.Coordinates),
	}

	if config.RequestTimeout <= 0 {
		s.httpClient.Timeout = DefaultTimeout
	}
	if config.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Geocode resolves location text to coordinates. Strategy order:
// in-process cache, literal "lat,lng" parse, Nominatim, static city
// table. Returns interfaces.ErrLocationNotFound when all fail.
func (s *Service) Geocode(ctx context.Context, location string) (models.Coordinates, error) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return models.Coordinates{}, interfaces.ErrLocationNotFound
	}

	if coords, ok := s.cacheGet(key); ok {
		return coords, nil
	}

	if coords, ok := parseLiteralCoordinates(key); ok {
		s.cachePut(key, coords)
		return coords, nil
	}

	if coords, err := s.queryNominatim(ctx, location); err == nil {
		s.cachePut(key, coords)
		return coords, nil
	} else if s.logger != nil {
		s.logger.Warn().
			Str("location", location).
			Err(err).
			Msg("Nominatim lookup failed, trying static city table")
	}

	if coords, ok := lookupCity(key); ok {
		s.cachePut(key, coords)
		return coords, nil
	}

	if s.logger != nil {
		s.logger.Warn().
			Str("location", location).
			Msg("All geocoding strategies failed")
	}
	return models.Coordinates{}, interfaces.ErrLocationNotFound
}

// ReverseGeocode returns a display address for coordinates, or "" on
// any failure. Errors are logged, never propagated.
func (s *Service) ReverseGeocode(ctx context.Context, coords models.Coordinates) string {
	if coords.IsZero() {
		return ""
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("addressdetails", "1")

	var result struct {
		DisplayName string `json:"display_name"`
	}
	if err := s.get(ctx, "/reverse", params, &result); err != nil {
		if s.logger != nil {
			s.logger.Warn().
				Float64("lat", coords.Latitude).
				Float64("lng", coords.Longitude).
				Err(err).
				Msg("Reverse geocoding failed")
		}
		return ""
	}

	return result.DisplayName
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (s *Service) queryNominatim(ctx context.Context, location string) (models.Coordinates, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	var results []nominatimResult
	if err := s.get(ctx, "/search", params, &results); err != nil {
		return models.Coordinates{}, err
	}
	if len(results) == 0 {
		return models.Coordinates{}, interfaces.ErrLocationNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid latitude %q: %w", results[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("invalid longitude %q: %w", results[0].Lon, err)
	}

	if s.logger != nil {
		s.logger.Debug().
			Str("location", location).
			Float64("lat", lat).
			Float64("lng", lng).
			Msg("Geocoded location")
	}

	return models.Coordinates{Latitude: lat, Longitude: lng}, nil
}

// get performs a rate-limited GET against the Nominatim API.
func (s *Service) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", s.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (s *Service) cacheGet(key string) (models.Coordinates, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	coords, ok := s.cache[key]
	return coords, ok
}

func (s *Service) cachePut(key string, coords models.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = coords
}

// parseLiteralCoordinates accepts "lat,lng" text with both values in
// range; anything else falls through to the next strategy.
func parseLiteralCoordinates(location string) (models.Coordinates, bool) {
	parts := splitTrim(location, ",")
	if len(parts) != 2 {
		return models.Coordinates{}, false
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return models.Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return models.Coordinates{}, false
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.Coordinates{}, false
	}

	return models.Coordinates{Latitude: lat, Longitude: lng}, true
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed = append(trimmed, strings.TrimSpace(p))
	}
	return trimmed
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
