package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// SearchAnalyticsAdapter implements the append-only search telemetry log.
type SearchAnalyticsAdapter struct {
	client *postgres.Client
}

// NewSearchAnalyticsAdapter creates a new search analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{client: client}
}

// LogEvent appends one immutable event. Existing events are never updated
// or deleted through this path.
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	filters, err := json.Marshal(event.Filters)
	if err != nil {
		return apperrors.NewInternalError("failed to encode event filters", err)
	}

	query := `
		INSERT INTO search_analytics
		(id, user_id, query, search_mode, filters, result_count, response_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = a.client.DB().ExecContext(ctx, query,
		event.ID,
		nullString(event.UserID),
		event.Query,
		event.SearchMode,
		filters,
		event.ResultCount,
		event.ResponseTimeMs,
		event.CreatedAt,
	)

	if err != nil {
		return storageError("failed to log search event", err)
	}

	return nil
}

// AttachClick sets click attribution on a prior event. The two clicked
// columns are the only mutation an event ever sees.
func (a *SearchAnalyticsAdapter) AttachClick(ctx context.Context, eventID, resultID string, resultType entities.EntityType) error {
	query := `
		UPDATE search_analytics
		SET clicked_result_id = $2, clicked_result_type = $3
		WHERE id = $1
	`

	result, err := a.client.DB().ExecContext(ctx, query, eventID, resultID, resultType)
	if err != nil {
		return storageError("failed to attach click", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("search event %s not found", eventID))
	}

	return nil
}

// DeleteByUser removes a user's events when the user is deleted. This is
// the single exception to the append-only rule, mirroring the owner
// cascade of the source system.
func (a *SearchAnalyticsAdapter) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM search_analytics WHERE user_id = $1`

	_, err := a.client.DB().ExecContext(ctx, query, userID)
	if err != nil {
		return storageError("failed to delete user search events", err)
	}

	return nil
}

// ZeroResultQueries returns recent queries that matched nothing.
func (a *SearchAnalyticsAdapter) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, user_id, query, search_mode, filters, result_count, response_time_ms,
		       clicked_result_id, clicked_result_type, created_at
		FROM search_analytics
		WHERE result_count = 0
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storageError("failed to get zero result queries", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		var userID, clickedID, clickedType sql.NullString
		var filters []byte

		err := rows.Scan(
			&e.ID,
			&userID,
			&e.Query,
			&e.SearchMode,
			&filters,
			&e.ResultCount,
			&e.ResponseTimeMs,
			&clickedID,
			&clickedType,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}

		e.UserID = userID.String
		e.ClickedResultID = clickedID.String
		e.ClickedResultType = clickedType.String
		if len(filters) > 0 {
			if err := json.Unmarshal(filters, &e.Filters); err != nil {
				return nil, apperrors.NewInternalError("failed to decode event filters", err)
			}
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating search events", err)
	}

	return events, nil
}
