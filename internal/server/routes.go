package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Search
	mux.HandleFunc("/api/search", s.app.SearchHandler.SearchHandler) // POST

	// API routes - Search options
	mux.HandleFunc("/api/pet-specialties", s.app.MetaHandler.PetSpecialtiesHandler)     // GET
	mux.HandleFunc("/api/filter-categories", s.app.MetaHandler.FilterCategoriesHandler) // GET
	mux.HandleFunc("/api/data-sources", s.app.MetaHandler.DataSourcesHandler)           // GET

	// API routes - Cache management
	mux.HandleFunc("/api/clear-cache", s.app.MetaHandler.ClearCacheHandler) // POST

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
