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

type stubSearchService struct {
	lastQuery entities.SearchQuery
	response  *entities.SearchResponse
	err       error
}

func (s *stubSearchService) Search(ctx context.Context, query entities.SearchQuery) (*entities.SearchResponse, error) {
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func TestSearchHandler_Search_Success(t *testing.T) {
	service := &stubSearchService{
		response: &entities.SearchResponse{
			Results: []entities.SearchResult{
				{Record: &entities.IndexRecord{ID: "o-1", EntityType: entities.EntityTypeOffering}, Score: 0.8},
			},
			ResultCount:    1,
			ResponseTimeMs: 12,
		},
	}
	handler := handlers.NewSearchHandler(service)

	body := `{"query":"warehouse","mode":"hybrid","limit":10}`
	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warehouse", service.lastQuery.Text)

	var response entities.SearchResponse
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, 1, response.ResultCount)
	assert.Equal(t, "o-1", response.Results[0].Record.ID)
}

func TestSearchHandler_Search_DefaultsToHybrid(t *testing.T) {
	service := &stubSearchService{response: &entities.SearchResponse{Results: []entities.SearchResult{}}}
	handler := handlers.NewSearchHandler(service)

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"warehouse"}`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.SearchModeHybrid, service.lastQuery.Mode)
}

func TestSearchHandler_Search_InvalidBody(t *testing.T) {
	handler := handlers.NewSearchHandler(&stubSearchService{})

	req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{broken`))
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_Search_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid mode", apperrors.NewInvalidModeError("unsupported search mode"), http.StatusBadRequest},
		{"invalid filter", apperrors.NewInvalidFilterError("unknown entity type filter"), http.StatusBadRequest},
		{"storage down", apperrors.NewUnavailableError("database unreachable", nil), http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := handlers.NewSearchHandler(&stubSearchService{err: tc.err})

			req := httptest.NewRequest("POST", "/api/search", strings.NewReader(`{"query":"x"}`))
			w := httptest.NewRecorder()

			handler.Search(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}
}
