package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// SuggestionProvider is what the handler needs from the suggestion engine.
type SuggestionProvider interface {
	Autocomplete(ctx context.Context, input string, maxResults int) ([]*entities.SuggestionMatch, error)
	PersonalizedSuggestions(ctx context.Context, userID string, maxResults int) ([]*entities.PersonalSuggestion, error)
	CreateSuggestion(ctx context.Context, suggestion *entities.Suggestion) error
	DeleteSuggestion(ctx context.Context, id string) error
}

// SuggestionHandler handles autocomplete and suggestion HTTP requests
type SuggestionHandler struct {
	suggestions SuggestionProvider
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestions SuggestionProvider) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions}
}

// Autocomplete handles GET /api/suggestions/autocomplete?q=...&limit=...
func (h *SuggestionHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	matches, err := h.suggestions.Autocomplete(
		r.Context(),
		r.URL.Query().Get("q"),
		queryParamInt(r, "limit", 0),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": matches,
		"count":       len(matches),
	})
}

// Personalized handles GET /api/suggestions/personal?user_id=...&limit=...
func (h *SuggestionHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.suggestions.PersonalizedSuggestions(
		r.Context(),
		r.URL.Query().Get("user_id"),
		queryParamInt(r, "limit", 0),
	)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// Create handles POST /api/suggestions
func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var suggestion entities.Suggestion
	if err := json.NewDecoder(r.Body).Decode(&suggestion); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.suggestions.CreateSuggestion(r.Context(), &suggestion); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, suggestion)
}

// Delete handles DELETE /api/suggestions/{id}
func (h *SuggestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.suggestions.DeleteSuggestion(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
