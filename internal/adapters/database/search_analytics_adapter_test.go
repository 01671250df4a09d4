package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmatch/search-service/internal/adapters/database"
	"github.com/propmatch/search-service/internal/domain/entities"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

func TestSearchAnalyticsAdapter_LogEvent_DefaultsIDAndTimestamp(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSearchAnalyticsAdapter(client)

	mock.ExpectExec("INSERT INTO search_analytics").
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &entities.SearchEvent{
		Query:       "warehouse",
		SearchMode:  "hybrid",
		ResultCount: 3,
	}

	err := adapter.LogEvent(context.Background(), event)

	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAnalyticsAdapter_AttachClick_Success(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSearchAnalyticsAdapter(client)

	mock.ExpectExec("UPDATE search_analytics").
		WithArgs("e-1", "o-1", entities.EntityTypeOffering).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.AttachClick(context.Background(), "e-1", "o-1", entities.EntityTypeOffering)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAnalyticsAdapter_AttachClick_EventGone(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSearchAnalyticsAdapter(client)

	mock.ExpectExec("UPDATE search_analytics").
		WithArgs("gone", "o-1", entities.EntityTypeOffering).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.AttachClick(context.Background(), "gone", "o-1", entities.EntityTypeOffering)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestSearchAnalyticsAdapter_ZeroResultQueries(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSearchAnalyticsAdapter(client)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "query", "search_mode", "filters", "result_count",
		"response_time_ms", "clicked_result_id", "clicked_result_type", "created_at",
	}).
		AddRow("e-1", nil, "zxqv partner", "hybrid", nil, 0, 12, nil, nil, now)

	mock.ExpectQuery("WHERE result_count = 0").
		WithArgs(50).
		WillReturnRows(rows)

	events, err := adapter.ZeroResultQueries(context.Background(), 50)

	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "zxqv partner", events[0].Query)
	assert.Zero(t, events[0].ResultCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchAnalyticsAdapter_DeleteByUser(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewSearchAnalyticsAdapter(client)

	mock.ExpectExec("DELETE FROM search_analytics").
		WithArgs("u-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	err := adapter.DeleteByUser(context.Background(), "u-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
