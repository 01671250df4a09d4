package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmatch/search-service/internal/api/handlers"
	"github.com/propmatch/search-service/internal/domain/entities"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

type stubAnalyticsService struct {
	clicks    []string
	refreshes int
	purged    []string
	popular   []*entities.PopularSearch
	zero      []*entities.SearchEvent
	clickErr  error
}

func (s *stubAnalyticsService) RecordClick(ctx context.Context, eventID, resultID string, resultType entities.EntityType) error {
	if s.clickErr != nil {
		return s.clickErr
	}
	s.clicks = append(s.clicks, eventID)
	return nil
}

func (s *stubAnalyticsService) RefreshPopularSearches(ctx context.Context) error {
	s.refreshes++
	return nil
}

func (s *stubAnalyticsService) PopularSearches(ctx context.Context, limit int) ([]*entities.PopularSearch, error) {
	return s.popular, nil
}

func (s *stubAnalyticsService) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.zero, nil
}

func (s *stubAnalyticsService) PurgeUserData(ctx context.Context, userID string) error {
	s.purged = append(s.purged, userID)
	return nil
}

func TestAnalyticsHandler_RecordClick(t *testing.T) {
	service := &stubAnalyticsService{}
	handler := handlers.NewAnalyticsHandler(service)

	body := `{"event_id":"e-1","result_id":"o-1","result_type":"offering"}`
	req := httptest.NewRequest("POST", "/api/search/clicks", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.RecordClick(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"e-1"}, service.clicks)
}

func TestAnalyticsHandler_RecordClick_InvalidPayload(t *testing.T) {
	service := &stubAnalyticsService{clickErr: apperrors.NewValidationError("event id and result id are required")}
	handler := handlers.NewAnalyticsHandler(service)

	req := httptest.NewRequest("POST", "/api/search/clicks", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.RecordClick(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyticsHandler_PopularSearches(t *testing.T) {
	service := &stubAnalyticsService{
		popular: []*entities.PopularSearch{
			{Query: "logistics partner", SearchCount: 42},
			{Query: "warehouse space", SearchCount: 17},
		},
	}
	handler := handlers.NewAnalyticsHandler(service)

	req := httptest.NewRequest("GET", "/api/search/popular?limit=10", nil)
	w := httptest.NewRecorder()

	handler.PopularSearches(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, float64(2), response["count"])
}

func TestAnalyticsHandler_RefreshPopularSearches(t *testing.T) {
	service := &stubAnalyticsService{}
	handler := handlers.NewAnalyticsHandler(service)

	req := httptest.NewRequest("POST", "/api/search/popular/refresh", nil)
	w := httptest.NewRecorder()

	handler.RefreshPopularSearches(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, service.refreshes)
}

func TestAnalyticsHandler_ZeroResultQueries(t *testing.T) {
	service := &stubAnalyticsService{
		zero: []*entities.SearchEvent{{Query: "zxqv partner", ResultCount: 0}},
	}
	handler := handlers.NewAnalyticsHandler(service)

	req := httptest.NewRequest("GET", "/api/search/zero-results", nil)
	w := httptest.NewRecorder()

	handler.ZeroResultQueries(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyticsHandler_PurgeUserData(t *testing.T) {
	service := &stubAnalyticsService{}
	handler := handlers.NewAnalyticsHandler(service)

	req := httptest.NewRequest("DELETE", "/api/users/u-1/search-data", nil)
	req.SetPathValue("id", "u-1")
	w := httptest.NewRecorder()

	handler.PurgeUserData(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"u-1"}, service.purged)
}
