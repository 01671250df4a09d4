package routes

import (
	"net/http"

	"github.com/propmatch/search-service/internal/api/handlers"
	"github.com/propmatch/search-service/internal/api/middleware"
	"github.com/propmatch/search-service/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler     *handlers.SearchHandler
	indexHandler      *handlers.IndexHandler
	suggestionHandler *handlers.SuggestionHandler
	analyticsHandler  *handlers.AnalyticsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	indexHandler *handlers.IndexHandler,
	suggestionHandler *handlers.SuggestionHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:     searchHandler,
		indexHandler:      indexHandler,
		suggestionHandler: suggestionHandler,
		analyticsHandler:  analyticsHandler,

		metrics: metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("POST /api/search", r.searchHandler.Search)
	r.mux.HandleFunc("POST /api/search/clicks", r.analyticsHandler.RecordClick)
	r.mux.HandleFunc("GET /api/search/popular", r.analyticsHandler.PopularSearches)
	r.mux.HandleFunc("POST /api/search/popular/refresh", r.analyticsHandler.RefreshPopularSearches)
	r.mux.HandleFunc("GET /api/search/zero-results", r.analyticsHandler.ZeroResultQueries)

	// Suggestion endpoints
	r.mux.HandleFunc("GET /api/suggestions/autocomplete", r.suggestionHandler.Autocomplete)
	r.mux.HandleFunc("GET /api/suggestions/personal", r.suggestionHandler.Personalized)
	r.mux.HandleFunc("POST /api/suggestions", r.suggestionHandler.Create)
	r.mux.HandleFunc("DELETE /api/suggestions/{id}", r.suggestionHandler.Delete)

	// Index projection endpoints for entity source systems
	r.mux.HandleFunc("PUT /api/index/{type}/{id}", r.indexHandler.UpsertRecord)
	r.mux.HandleFunc("GET /api/index/{type}/{id}", r.indexHandler.GetRecord)
	r.mux.HandleFunc("DELETE /api/index/{type}/{id}", r.indexHandler.DeleteRecord)
	r.mux.HandleFunc("PUT /api/index/{type}/{id}/embedding", r.indexHandler.UpsertEmbedding)
	r.mux.HandleFunc("GET /api/index/{type}/{id}/embedding", r.indexHandler.GetEmbedding)

	// User data cascade
	r.mux.HandleFunc("DELETE /api/users/{id}/search-data", r.analyticsHandler.PurgeUserData)

	// Apply middleware, innermost first
	var handler http.Handler = r.mux
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
