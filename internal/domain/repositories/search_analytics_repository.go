package repositories

import (
	"context"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// SearchAnalyticsRepository is the append-only query telemetry log.
type SearchAnalyticsRepository interface {
	// LogEvent appends one immutable event.
	LogEvent(ctx context.Context, event *entities.SearchEvent) error

	// AttachClick sets click attribution on a prior event. Returns a
	// NotFound error when the event is gone.
	AttachClick(ctx context.Context, eventID, resultID string, resultType entities.EntityType) error

	// ZeroResultQueries returns recent queries that matched nothing.
	ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)

	// DeleteByUser removes a user's events (cascade on user delete).
	DeleteByUser(ctx context.Context, userID string) error
}

// PopularSearchRepository maintains the materialized popular-query summary.
type PopularSearchRepository interface {
	// Refresh rebuilds the summary from scratch over the trailing window,
	// atomically: readers see the old rows until the rebuild commits.
	Refresh(ctx context.Context, windowDays, minOccurrences, limit int) error

	// List returns the current summary ordered by frequency descending.
	List(ctx context.Context, limit int) ([]*entities.PopularSearch, error)
}
