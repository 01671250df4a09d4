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

type stubSuggestionService struct {
	matches   []*entities.SuggestionMatch
	personal  []*entities.PersonalSuggestion
	lastInput string
	lastUser  string
	lastLimit int
	createErr error
	deleteErr error
	deleted   []string
}

func (s *stubSuggestionService) Autocomplete(ctx context.Context, input string, maxResults int) ([]*entities.SuggestionMatch, error) {
	s.lastInput = input
	s.lastLimit = maxResults
	return s.matches, nil
}

func (s *stubSuggestionService) PersonalizedSuggestions(ctx context.Context, userID string, maxResults int) ([]*entities.PersonalSuggestion, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	s.lastUser = userID
	return s.personal, nil
}

func (s *stubSuggestionService) CreateSuggestion(ctx context.Context, suggestion *entities.Suggestion) error {
	if s.createErr != nil {
		return s.createErr
	}
	suggestion.ID = "s-1"
	return nil
}

func (s *stubSuggestionService) DeleteSuggestion(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func TestSuggestionHandler_Autocomplete(t *testing.T) {
	service := &stubSuggestionService{
		matches: []*entities.SuggestionMatch{
			{Suggestion: entities.Suggestion{Suggestion: "apartment complex"}, Similarity: 0.62},
		},
	}
	handler := handlers.NewSuggestionHandler(service)

	req := httptest.NewRequest("GET", "/api/suggestions/autocomplete?q=apartmant&limit=5", nil)
	w := httptest.NewRecorder()

	handler.Autocomplete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apartmant", service.lastInput)
	assert.Equal(t, 5, service.lastLimit)

	var response map[string]interface{}
	err := json.NewDecoder(w.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, float64(1), response["count"])
}

func TestSuggestionHandler_Personalized_RequiresUser(t *testing.T) {
	handler := handlers.NewSuggestionHandler(&stubSuggestionService{})

	req := httptest.NewRequest("GET", "/api/suggestions/personal", nil)
	w := httptest.NewRecorder()

	handler.Personalized(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionHandler_Personalized(t *testing.T) {
	service := &stubSuggestionService{
		personal: []*entities.PersonalSuggestion{{Query: "logistics partner", Frequency: 7}},
	}
	handler := handlers.NewSuggestionHandler(service)

	req := httptest.NewRequest("GET", "/api/suggestions/personal?user_id=u-1", nil)
	w := httptest.NewRecorder()

	handler.Personalized(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", service.lastUser)
}

func TestSuggestionHandler_Create(t *testing.T) {
	handler := handlers.NewSuggestionHandler(&stubSuggestionService{})

	body := `{"suggestion":"apartment complex","weight":2}`
	req := httptest.NewRequest("POST", "/api/suggestions", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var created entities.Suggestion
	err := json.NewDecoder(w.Body).Decode(&created)
	require.NoError(t, err)
	assert.Equal(t, "s-1", created.ID)
}

func TestSuggestionHandler_Create_Duplicate(t *testing.T) {
	service := &stubSuggestionService{createErr: apperrors.NewConflictError("suggestion already exists")}
	handler := handlers.NewSuggestionHandler(service)

	req := httptest.NewRequest("POST", "/api/suggestions", strings.NewReader(`{"suggestion":"dup"}`))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSuggestionHandler_Delete(t *testing.T) {
	service := &stubSuggestionService{}
	handler := handlers.NewSuggestionHandler(service)

	req := httptest.NewRequest("DELETE", "/api/suggestions/s-1", nil)
	req.SetPathValue("id", "s-1")
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"s-1"}, service.deleted)
}
