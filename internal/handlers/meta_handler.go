package handlers

import (
	"context"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/interfaces"
)

// SpecialtyOption is one selectable filter in the search UI.
type SpecialtyOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// FilterCategory groups specialty options.
type FilterCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var petSpecialties = []SpecialtyOption{
	{ID: "general", Name: "General Practice", Category: "services"},
	{ID: "emergency", Name: "Emergency & Critical Care", Category: "services"},
	{ID: "surgery", Name: "Surgery", Category: "services"},
	{ID: "dental", Name: "Dental", Category: "services"},
	{ID: "dermatology", Name: "Dermatology", Category: "services"},
	{ID: "exotic", Name: "Exotic Animals", Category: "pet_type"},
	{ID: "birds", Name: "Birds", Category: "pet_type"},
	{ID: "reptiles", Name: "Reptiles", Category: "pet_type"},
	{ID: "small_mammals", Name: "Small Mammals", Category: "pet_type"},
}

var filterCategories = []FilterCategory{
	{ID: "services", Name: "Services", Description: "Type of veterinary services offered"},
	{ID: "pet_type", Name: "Pet Types", Description: "Types of animals treated"},
}

// MetaHandler serves the static option lists and cache management.
type MetaHandler struct {
	providers interfaces.ProviderManager
	cache     interfaces.CacheStorage
	logger    arbor.ILogger
}

// NewMetaHandler creates a new meta handler. cache may be nil when
// provider-response caching is disabled.
func NewMetaHandler(providers interfaces.ProviderManager, cache interfaces.CacheStorage, logger arbor.ILogger) *MetaHandler {
	return &MetaHandler{
		providers: providers,
		cache:     cache,
		logger:    logger,
	}
}

// PetSpecialtiesHandler handles GET /api/pet-specialties
func (h *MetaHandler) PetSpecialtiesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, petSpecialties)
}

// FilterCategoriesHandler handles GET /api/filter-categories
func (h *MetaHandler) FilterCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, filterCategories)
}

// DataSourcesHandler handles GET /api/data-sources
func (h *MetaHandler) DataSourcesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"enabled_sources": h.providers.EnabledSources(),
	})
}

// ClearCacheHandler handles POST /api/clear-cache
func (h *MetaHandler) ClearCacheHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if h.cache == nil {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "Cache disabled"})
		return
	}

	if err := h.cache.Clear(context.Background()); err != nil {
		if h.logger != nil {
			h.logger.Error().Err(err).Msg("Failed to clear provider cache")
		}
		WriteError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}

	if h.logger != nil {
		h.logger.Info().Msg("Provider response cache cleared")
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "Cache cleared"})
}
