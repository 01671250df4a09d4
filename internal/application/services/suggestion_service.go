package services

import (
	"context"
	"strings"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/pkg/config"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// SuggestionService serves autocomplete from the curated suggestion table
// and personalized suggestions from each user's own search history.
type SuggestionService struct {
	suggestions repositories.SuggestionRepository
	history     repositories.SearchHistoryRepository
	cfg         config.SearchConfig
}

// NewSuggestionService creates a new suggestion service
func NewSuggestionService(
	suggestions repositories.SuggestionRepository,
	history repositories.SearchHistoryRepository,
	cfg config.SearchConfig,
) *SuggestionService {
	return &SuggestionService{
		suggestions: suggestions,
		history:     history,
		cfg:         cfg,
	}
}

// Autocomplete fuzzy-matches input against the curated suggestions.
func (s *SuggestionService) Autocomplete(ctx context.Context, input string, maxResults int) ([]*entities.SuggestionMatch, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return []*entities.SuggestionMatch{}, nil
	}

	if maxResults <= 0 || maxResults > s.cfg.SuggestionLimit {
		maxResults = s.cfg.SuggestionLimit
	}

	return s.suggestions.FuzzyMatch(ctx, input, s.cfg.FuzzyThreshold, maxResults)
}

// PersonalizedSuggestions aggregates the user's trailing-window history by
// query text. A user with no history in-window gets an empty slice.
func (s *SuggestionService) PersonalizedSuggestions(ctx context.Context, userID string, maxResults int) ([]*entities.PersonalSuggestion, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	if maxResults <= 0 || maxResults > s.cfg.SuggestionLimit {
		maxResults = s.cfg.SuggestionLimit
	}

	return s.history.AggregateByUser(ctx, userID, s.cfg.HistoryDays, maxResults)
}

// CreateSuggestion adds a curated entry
func (s *SuggestionService) CreateSuggestion(ctx context.Context, suggestion *entities.Suggestion) error {
	return s.suggestions.Create(ctx, suggestion)
}

// DeleteSuggestion removes a curated entry
func (s *SuggestionService) DeleteSuggestion(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("suggestion id is required")
	}
	return s.suggestions.Delete(ctx, id)
}
