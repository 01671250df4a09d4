package repositories

import (
	"context"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// SuggestionRepository stores curated autocomplete entries.
type SuggestionRepository interface {
	Create(ctx context.Context, suggestion *entities.Suggestion) error
	Delete(ctx context.Context, id string) error

	// FuzzyMatch returns suggestions whose trigram similarity to input is
	// at least threshold, ordered by similarity then manual weight.
	FuzzyMatch(ctx context.Context, input string, threshold float64, limit int) ([]*entities.SuggestionMatch, error)
}

// SearchHistoryRepository is the per-user append-only search log backing
// personalization.
type SearchHistoryRepository interface {
	Append(ctx context.Context, entry *entities.SearchHistoryEntry) error

	// AggregateByUser groups the user's in-window history by exact query
	// text, ordered by frequency then most recent occurrence.
	AggregateByUser(ctx context.Context, userID string, windowDays, limit int) ([]*entities.PersonalSuggestion, error)

	// DeleteByUser removes all history for a user (cascade on user delete).
	DeleteByUser(ctx context.Context, userID string) error
}
