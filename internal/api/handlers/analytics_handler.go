package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// AnalyticsProvider is what the handler needs from the analytics recorder.
type AnalyticsProvider interface {
	RecordClick(ctx context.Context, eventID, resultID string, resultType entities.EntityType) error
	RefreshPopularSearches(ctx context.Context) error
	PopularSearches(ctx context.Context, limit int) ([]*entities.PopularSearch, error)
	ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
	PurgeUserData(ctx context.Context, userID string) error
}

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	analytics AnalyticsProvider
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics AnalyticsProvider) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

type recordClickRequest struct {
	EventID    string              `json:"event_id"`
	ResultID   string              `json:"result_id"`
	ResultType entities.EntityType `json:"result_type"`
}

// RecordClick handles POST /api/search/clicks. Click tracking is
// best-effort: a stale event id still gets a 202.
func (h *AnalyticsHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	var req recordClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.analytics.RecordClick(r.Context(), req.EventID, req.ResultID, req.ResultType); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// PopularSearches handles GET /api/search/popular
func (h *AnalyticsHandler) PopularSearches(w http.ResponseWriter, r *http.Request) {
	popular, err := h.analytics.PopularSearches(r.Context(), queryParamInt(r, "limit", 0))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"popular_searches": popular,
		"count":            len(popular),
	})
}

// RefreshPopularSearches handles POST /api/search/popular/refresh
func (h *AnalyticsHandler) RefreshPopularSearches(w http.ResponseWriter, r *http.Request) {
	if err := h.analytics.RefreshPopularSearches(r.Context()); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ZeroResultQueries handles GET /api/search/zero-results
func (h *AnalyticsHandler) ZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	events, err := h.analytics.ZeroResultQueries(r.Context(), queryParamInt(r, "limit", 0))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}

// PurgeUserData handles DELETE /api/users/{id}/search-data
func (h *AnalyticsHandler) PurgeUserData(w http.ResponseWriter, r *http.Request) {
	if err := h.analytics.PurgeUserData(r.Context(), r.PathValue("id")); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
