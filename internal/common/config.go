package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Providers   ProvidersConfig `toml:"providers"`
	Geocoding   GeocodingConfig `toml:"geocoding"`
	Search      SearchConfig    `toml:"search"`
	Cache       CacheConfig     `toml:"cache"`
	Sentiment   SentimentConfig `toml:"sentiment"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// ProvidersConfig holds per-provider settings. A provider is enabled
// when its API key (or dataset path) is present.
type ProvidersConfig struct {
	RequestTimeout      time.Duration     `toml:"request_timeout"`        // HTTP request timeout
	MaxResultsPerSource int               `toml:"max_results_per_source"` // Cap on raw records per provider
	FetchConcurrency    int               `toml:"fetch_concurrency"`      // Parallel provider fetches
	Foursquare          FoursquareConfig  `toml:"foursquare"`
	Here                HereConfig        `toml:"here"`
	TomTom              TomTomConfig      `toml:"tomtom"`
	YelpDataset         YelpDatasetConfig `toml:"yelp_dataset"`
	EnableMockFallback  bool              `toml:"enable_mock_fallback"` // Generate synthetic data when all providers come back empty
}

type FoursquareConfig struct {
	APIKey    string  `toml:"api_key"`
	RateLimit float64 `toml:"rate_limit"` // Requests per second
}

type HereConfig struct {
	APIKey    string  `toml:"api_key"`
	RateLimit float64 `toml:"rate_limit"`
}

type TomTomConfig struct {
	APIKey    string  `toml:"api_key"`
	RateLimit float64 `toml:"rate_limit"`
}

// YelpDatasetConfig points at a local copy of the Yelp academic dataset
// (JSON-lines business and review files).
type YelpDatasetConfig struct {
	Enabled     bool    `toml:"enabled"`
	Path        string  `toml:"path"`         // Dataset directory
	RadiusMiles float64 `toml:"radius_miles"` // Search radius when filtering businesses
	MaxReviews  int     `toml:"max_reviews"`  // Reviews loaded per business
}

// GeocodingConfig controls the Nominatim client and its fallbacks.
type GeocodingConfig struct {
	UserAgent      string        `toml:"user_agent"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      float64       `toml:"rate_limit"` // Requests per second (Nominatim asks for 1)
}

// SearchConfig contains configuration for recommendation behavior
type SearchConfig struct {
	DefaultTopN int `toml:"default_top_n"` // Recommendations returned when the request omits top_n
	MaxReviews  int `toml:"max_reviews"`   // Reviews included per listing in the response
}

// CacheConfig controls raw provider-response caching.
type CacheConfig struct {
	Enabled       bool          `toml:"enabled"`
	TTL           time.Duration `toml:"ttl"`            // How long a cached provider response stays fresh
	SweepSchedule string        `toml:"sweep_schedule"` // Cron schedule for expired-entry cleanup
}

// SentimentConfig controls the optional review-sentiment enrichment.
type SentimentConfig struct {
	Enabled bool `toml:"enabled"`
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in pcvf.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Providers: ProvidersConfig{
			RequestTimeout:      10 * time.Second,
			MaxResultsPerSource: 15,
			FetchConcurrency:    4,
			Foursquare:          FoursquareConfig{RateLimit: 2},
			Here:                HereConfig{RateLimit: 2},
			TomTom:              TomTomConfig{RateLimit: 2},
			YelpDataset: YelpDatasetConfig{
				Enabled:     false,
				RadiusMiles: 10,
				MaxReviews:  20,
			},
			EnableMockFallback: true,
		},
		Geocoding: GeocodingConfig{
			UserAgent:      "PCVF-Vet-Finder/1.0",
			RequestTimeout: 5 * time.Second,
			RateLimit:      1, // Nominatim usage policy
		},
		Search: SearchConfig{
			DefaultTopN: 5,
			MaxReviews:  3,
		},
		Cache: CacheConfig{
			Enabled:       true,
			TTL:           5 * time.Minute,
			SweepSchedule: "0 */10 * * * *", // Every 10 minutes (cron with seconds field)
		},
		Sentiment: SentimentConfig{
			Enabled: true,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env -> CLI.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier files, env overrides all files, CLI flags override env.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PCVF_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("PCVF_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PCVF_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if level := os.Getenv("PCVF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := os.Getenv("FOURSQUARE_API_KEY"); key != "" {
		config.Providers.Foursquare.APIKey = key
	}
	if key := os.Getenv("HERE_API_KEY"); key != "" {
		config.Providers.Here.APIKey = key
	}
	if key := os.Getenv("TOMTOM_API_KEY"); key != "" {
		config.Providers.TomTom.APIKey = key
	}
	if path := os.Getenv("YELP_DATASET_PATH"); path != "" {
		config.Providers.YelpDataset.Path = path
		config.Providers.YelpDataset.Enabled = true
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
