package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// SearchProvider is what the handler needs from the query engine.
type SearchProvider interface {
	Search(ctx context.Context, query entities.SearchQuery) (*entities.SearchResponse, error)
}

// SearchHandler handles search HTTP requests
type SearchHandler struct {
	search SearchProvider
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search SearchProvider) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search handles POST /api/search. The request carries the query text,
// mode, filters, pagination, and optionally the query embedding computed
// by the caller.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var query entities.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if query.Mode == "" {
		query.Mode = entities.SearchModeHybrid
	}

	response, err := h.search.Search(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}
