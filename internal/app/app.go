// Package app wires configuration, storage, services, and handlers into
// one application instance with a managed lifecycle.
package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/common"
	"github.com/sridhs21/PCVF/internal/handlers"
	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/services/geocoding"
	"github.com/sridhs21/PCVF/internal/services/providers"
	"github.com/sridhs21/PCVF/internal/services/recommender"
	"github.com/sridhs21/PCVF/internal/services/sentiment"
	"github.com/sridhs21/PCVF/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	GeocodingService   interfaces.GeocodingService
	SentimentService   interfaces.SentimentService
	ProviderManager    interfaces.ProviderManager
	RecommenderService interfaces.RecommenderService

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	SearchHandler *handlers.SearchHandler
	MetaHandler   *handlers.MetaHandler

	sweeper *cron.Cron
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if err := app.startCacheSweeper(); err != nil {
		return nil, fmt.Errorf("failed to start cache sweeper: %w", err)
	}

	logger.Info().
		Int("providers", len(app.ProviderManager.EnabledSources())).
		Bool("cache", cfg.Cache.Enabled).
		Bool("sentiment", cfg.Sentiment.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger)
func (a *App) initStorage() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices builds geocoding, sentiment, the provider fan-out, and
// the recommender. A provider is registered only when its credentials
// or dataset are available.
func (a *App) initServices() error {
	a.GeocodingService = geocoding.NewService(a.Config.Geocoding, a.Logger)

	if a.Config.Sentiment.Enabled {
		a.SentimentService = sentiment.NewService(a.Logger)
	}

	providerList := a.buildProviders()

	managerOpts := []providers.ManagerOption{
		providers.WithConcurrency(a.Config.Providers.FetchConcurrency),
	}
	if a.Config.Cache.Enabled {
		managerOpts = append(managerOpts,
			providers.WithCache(a.StorageManager.CacheStorage(), a.Config.Cache.TTL))
	}
	if a.Config.Providers.EnableMockFallback {
		managerOpts = append(managerOpts,
			providers.WithFallback(providers.NewMockProvider(a.GeocodingService, a.Logger)))
	}

	a.ProviderManager = providers.NewManager(providerList, a.Logger, managerOpts...)

	a.RecommenderService = recommender.NewService(
		a.ProviderManager,
		a.GeocodingService,
		a.SentimentService,
		a.Config.Providers,
		a.Config.Search,
		a.Logger,
	)

	return nil
}

// buildProviders registers every source with available credentials.
// API keys come from config (file or env) first, then from the
// key/value store so operators can set them at runtime.
func (a *App) buildProviders() []interfaces.Provider {
	cfg := a.Config.Providers
	timeout := cfg.RequestTimeout
	var list []interfaces.Provider

	if cfg.YelpDataset.Enabled && cfg.YelpDataset.Path != "" {
		list = append(list, providers.NewYelpDatasetProvider(cfg.YelpDataset, a.GeocodingService, a.Logger))
	}

	if key := a.resolveAPIKey(cfg.Foursquare.APIKey, "foursquare_api_key"); key != "" {
		list = append(list, providers.NewFoursquareProvider(key, cfg.Foursquare.RateLimit, timeout, a.Logger))
	}
	if key := a.resolveAPIKey(cfg.Here.APIKey, "here_api_key"); key != "" {
		list = append(list, providers.NewHereProvider(key, cfg.Here.RateLimit, timeout, a.GeocodingService, a.Logger))
	}
	if key := a.resolveAPIKey(cfg.TomTom.APIKey, "tomtom_api_key"); key != "" {
		list = append(list, providers.NewTomTomProvider(key, cfg.TomTom.RateLimit, timeout, a.GeocodingService, a.Logger))
	}

	if len(list) == 0 {
		a.Logger.Warn().Msg("No data providers configured, searches will use synthetic fallback data only")
	}

	return list
}

func (a *App) resolveAPIKey(configured, kvKey string) string {
	if configured != "" {
		return configured
	}
	value, err := a.StorageManager.KeyValueStorage().Get(context.Background(), kvKey)
	if err != nil {
		return ""
	}
	return value
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.SearchHandler = handlers.NewSearchHandler(a.RecommenderService, a.Logger)

	var cache interfaces.CacheStorage
	if a.Config.Cache.Enabled {
		cache = a.StorageManager.CacheStorage()
	}
	a.MetaHandler = handlers.NewMetaHandler(a.ProviderManager, cache, a.Logger)
}

// startCacheSweeper schedules periodic removal of expired provider
// responses. The schedule uses a six-field cron expression.
func (a *App) startCacheSweeper() error {
	if !a.Config.Cache.Enabled || a.Config.Cache.SweepSchedule == "" {
		return nil
	}

	a.sweeper = cron.New(cron.WithSeconds())
	_, err := a.sweeper.AddFunc(a.Config.Cache.SweepSchedule, func() {
		removed, err := a.StorageManager.CacheStorage().SweepExpired(context.Background(), a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Cache sweep failed")
			return
		}
		if removed > 0 {
			a.Logger.Info().Int("removed", removed).Msg("Swept expired cache entries")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", a.Config.Cache.SweepSchedule, err)
	}

	a.sweeper.Start()
	a.Logger.Debug().
		Str("schedule", a.Config.Cache.SweepSchedule).
		Msg("Cache sweeper started")

	return nil
}

// Close shuts down background jobs and releases storage.
func (a *App) Close() error {
	if a.sweeper != nil {
		ctx := a.sweeper.Stop()
		<-ctx.Done()
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	a.Logger.Info().Msg("Application shut down")
	return nil
}
