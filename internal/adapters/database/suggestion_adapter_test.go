package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmatch/search-service/internal/adapters/database"
	"github.com/propmatch/search-service/internal/domain/entities"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

func TestSuggestionAdapter_Create(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSuggestionAdapter(client)

	mock.ExpectExec(`INSERT INTO "search_suggestions"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	suggestion := &entities.Suggestion{Suggestion: "apartment complex", Weight: 2}
	err := adapter.Create(context.Background(), suggestion)

	require.NoError(t, err)
	assert.NotEmpty(t, suggestion.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestionAdapter_Create_DuplicateIsConflict(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSuggestionAdapter(client)

	mock.ExpectExec(`INSERT INTO "search_suggestions"`).
		WillReturnError(&pq.Error{Code: "23505"})

	err := adapter.Create(context.Background(), &entities.Suggestion{Suggestion: "apartment complex"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
}

func TestSuggestionAdapter_Create_RequiresText(t *testing.T) {
	client, _ := setupMockDB(t)
	adapter := database.NewSuggestionAdapter(client)

	err := adapter.Create(context.Background(), &entities.Suggestion{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSuggestionAdapter_Delete_NotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSuggestionAdapter(client)

	mock.ExpectExec(`DELETE FROM "search_suggestions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSuggestionAdapter_FuzzyMatch(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSuggestionAdapter(client)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "suggestion", "category", "weight", "created_at", "sim"}).
		AddRow("s-1", "apartment complex", "real_estate", 2, now, 0.62).
		AddRow("s-2", "apartment renovation", nil, 0, now, 0.48)

	mock.ExpectQuery("similarity").
		WithArgs("apartmant", 0.3, 10).
		WillReturnRows(rows)

	matches, err := adapter.FuzzyMatch(context.Background(), "apartmant", 0.3, 10)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "apartment complex", matches[0].Suggestion.Suggestion)
	assert.InDelta(t, 0.62, matches[0].Similarity, 1e-9)
	assert.Empty(t, matches[1].Suggestion.Category)
	assert.NoError(t, mock.ExpectationsWereMet())
}
