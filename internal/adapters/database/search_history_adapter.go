package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// SearchHistoryAdapter implements the per-user search log
type SearchHistoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchHistoryAdapter creates a new search history adapter
func NewSearchHistoryAdapter(client *postgres.Client) repositories.SearchHistoryRepository {
	return &SearchHistoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Append logs one history entry
func (a *SearchHistoryAdapter) Append(ctx context.Context, entry *entities.SearchHistoryEntry) error {
	if entry.UserID == "" {
		return apperrors.NewValidationError("history entry requires a user id")
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	filters, err := json.Marshal(entry.Filters)
	if err != nil {
		return apperrors.NewInternalError("failed to encode history filters", err)
	}

	record := goqu.Record{
		"id":         entry.ID,
		"user_id":    entry.UserID,
		"query":      entry.Query,
		"filters":    filters,
		"created_at": entry.CreatedAt,
	}

	query, args, err := a.db.Insert("user_search_history").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return storageError("failed to append search history", err)
	}

	return nil
}

// AggregateByUser groups the user's in-window history by exact query text.
// A user with no history in the window gets an empty slice, not an error.
func (a *SearchHistoryAdapter) AggregateByUser(ctx context.Context, userID string, windowDays, limit int) ([]*entities.PersonalSuggestion, error) {
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(`
		SELECT query, COUNT(*) AS frequency, MAX(created_at) AS last_searched_at
		FROM user_search_history
		WHERE user_id = $1
		  AND created_at >= now() - INTERVAL '%d days'
		  AND query <> ''
		GROUP BY query
		ORDER BY frequency DESC, last_searched_at DESC
		LIMIT $2
	`, windowDays)

	rows, err := a.client.DB().QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, storageError("failed to aggregate search history", err)
	}
	defer rows.Close()

	suggestions := []*entities.PersonalSuggestion{}
	for rows.Next() {
		s := &entities.PersonalSuggestion{}
		if err := rows.Scan(&s.Query, &s.Frequency, &s.LastSearchedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan personal suggestion", err)
		}
		suggestions = append(suggestions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating search history", err)
	}

	return suggestions, nil
}

// DeleteByUser removes all history rows for a user
func (a *SearchHistoryAdapter) DeleteByUser(ctx context.Context, userID string) error {
	query, args, err := a.db.Delete("user_search_history").Where(goqu.Ex{"user_id": userID}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return storageError("failed to delete search history", err)
	}

	return nil
}
