package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// SuggestionAdapter implements SuggestionRepository
type SuggestionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSuggestionAdapter creates a new suggestion adapter
func NewSuggestionAdapter(client *postgres.Client) repositories.SuggestionRepository {
	return &SuggestionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a curated suggestion
func (a *SuggestionAdapter) Create(ctx context.Context, suggestion *entities.Suggestion) error {
	if suggestion.Suggestion == "" {
		return apperrors.NewValidationError("suggestion text is required")
	}
	if suggestion.ID == "" {
		suggestion.ID = uuid.New().String()
	}
	if suggestion.CreatedAt.IsZero() {
		suggestion.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":         suggestion.ID,
		"suggestion": suggestion.Suggestion,
		"category":   sql.NullString{String: suggestion.Category, Valid: suggestion.Category != ""},
		"weight":     suggestion.Weight,
		"created_at": suggestion.CreatedAt,
	}

	query, args, err := a.db.Insert("search_suggestions").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("suggestion already exists: " + suggestion.Suggestion)
		}
		return storageError("failed to create suggestion", err)
	}

	return nil
}

// Delete removes a curated suggestion by id
func (a *SuggestionAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("search_suggestions").Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return storageError("failed to delete suggestion", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError("suggestion " + id + " not found")
	}

	return nil
}

// FuzzyMatch finds curated suggestions by trigram similarity, not exact
// prefix, so typos still land: ranked by similarity, then manual weight.
func (a *SuggestionAdapter) FuzzyMatch(ctx context.Context, input string, threshold float64, limit int) ([]*entities.SuggestionMatch, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT id, suggestion, category, weight, created_at,
		       similarity(suggestion, $1) AS sim
		FROM search_suggestions
		WHERE similarity(suggestion, $1) >= $2
		ORDER BY sim DESC, weight DESC, suggestion ASC
		LIMIT $3
	`

	rows, err := a.client.DB().QueryContext(ctx, query, input, threshold, limit)
	if err != nil {
		return nil, storageError("failed to match suggestions", err)
	}
	defer rows.Close()

	matches := []*entities.SuggestionMatch{}
	for rows.Next() {
		m := &entities.SuggestionMatch{}
		var category sql.NullString

		err := rows.Scan(
			&m.Suggestion.ID,
			&m.Suggestion.Suggestion,
			&category,
			&m.Suggestion.Weight,
			&m.Suggestion.CreatedAt,
			&m.Similarity,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan suggestion", err)
		}

		m.Suggestion.Category = category.String
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating suggestions", err)
	}

	return matches, nil
}
