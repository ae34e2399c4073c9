package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/sridhs21/PCVF/internal/interfaces"
	"github.com/sridhs21/PCVF/internal/models"
)

// SearchRequest is the POST /api/search body.
type SearchRequest struct {
	Location    string   `json:"location" validate:"required"`
	PetType     string   `json:"pet_type"`
	Price       string   `json:"price" validate:"omitempty,oneof=$ $$ $$$ $$$$"`
	MaxDistance float64  `json:"max_distance" validate:"gte=0"`
	Specialties []string `json:"specialties"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	TopN        int      `json:"top_n" validate:"gte=0,lte=50"`

	// IncludeStats attaches per-request dataset statistics to the
	// response for debugging.
	IncludeStats bool `json:"include_stats"`
}

// searchQuery echoes the criteria back in the response.
type searchQuery struct {
	Location    string   `json:"location"`
	PetType     string   `json:"pet_type,omitempty"`
	Price       string   `json:"price,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}

// searchResponseBody is the full POST /api/search payload.
type searchResponseBody struct {
	Recommendations []interfaces.RecommendationResult `json:"recommendations"`
	Count           int                               `json:"count"`
	Query           searchQuery                       `json:"query"`
	DataSources     []string                          `json:"data_sources"`
	Timestamp       string                            `json:"timestamp"`
	Stats           *models.DatasetStats              `json:"stats,omitempty"`
	Message         string                            `json:"message,omitempty"`
}

// SearchHandler handles veterinarian search requests.
type SearchHandler struct {
	recommender interfaces.RecommenderService
	validate    *validator.Validate
	logger      arbor.ILogger
}

// NewSearchHandler creates a new search handler with dependencies
func NewSearchHandler(recommender interfaces.RecommenderService, logger arbor.ILogger) *SearchHandler {
	return &SearchHandler{
		recommender: recommender,
		validate:    validator.New(),
		logger:      logger,
	}
}

// SearchHandler handles POST /api/search requests
func (h *SearchHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid search request: "+err.Error())
		return
	}

	if h.logger != nil {
		h.logger.Info().
			Str("location", req.Location).
			Str("pet_type", req.PetType).
			Str("price", req.Price).
			Msg("Search request received")
	}

	criteria := models.SearchCriteria{
		LocationText:    req.Location,
		PetType:         req.PetType,
		PricePreference: req.Price,
		MaxDistance:     req.MaxDistance,
		Specialties:     req.Specialties,
		TopN:            req.TopN,
	}
	if req.Latitude != nil && req.Longitude != nil {
		criteria.UserLocation = &models.Coordinates{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
		}
	}

	result, err := h.recommender.Recommend(r.Context(), criteria)
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Err(err).Str("location", req.Location).Msg("Search failed")
		}
		WriteError(w, http.StatusInternalServerError, "An error occurred while processing your request")
		return
	}

	body := searchResponseBody{
		Recommendations: result.Recommendations,
		Count:           result.Count,
		Query: searchQuery{
			Location:    req.Location,
			PetType:     req.PetType,
			Price:       req.Price,
			Specialties: req.Specialties,
		},
		DataSources: result.DataSources,
		Timestamp:   time.Now().Format(time.RFC3339),
		Message:     result.Message,
	}
	if req.IncludeStats {
		body.Stats = result.Stats
	}

	SetNoStoreHeaders(w)
	WriteJSON(w, http.StatusOK, body)
}
