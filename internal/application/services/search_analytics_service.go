package services

import (
	"context"
	"log"
	"time"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/pkg/config"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// SearchAnalyticsService records query telemetry and maintains the
// popular-search summary. Telemetry writes are best-effort: they must
// never fail a search request.
type SearchAnalyticsService struct {
	events  repositories.SearchAnalyticsRepository
	history repositories.SearchHistoryRepository
	popular repositories.PopularSearchRepository
	cfg     config.PopularConfig
}

// NewSearchAnalyticsService creates a new analytics service
func NewSearchAnalyticsService(
	events repositories.SearchAnalyticsRepository,
	history repositories.SearchHistoryRepository,
	popular repositories.PopularSearchRepository,
	cfg config.PopularConfig,
) *SearchAnalyticsService {
	return &SearchAnalyticsService{
		events:  events,
		history: history,
		popular: popular,
		cfg:     cfg,
	}
}

// TrackSearch appends one analytics event in the background so the search
// response is not blocked on the telemetry write.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	go func() {
		// Use a fresh context since the request context might be cancelled
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.events.LogEvent(bgCtx, event); err != nil {
			log.Printf("Warning: failed to log search event: %v", err)
		}
	}()
}

// TrackHistory appends one per-user history entry in the background.
func (s *SearchAnalyticsService) TrackHistory(ctx context.Context, entry *entities.SearchHistoryEntry) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.history.Append(bgCtx, entry); err != nil {
			log.Printf("Warning: failed to append search history: %v", err)
		}
	}()
}

// RecordClick attaches click attribution to a prior event. Attribution is
// best-effort telemetry: a missing event or a storage hiccup is logged and
// suppressed, never surfaced to the caller.
func (s *SearchAnalyticsService) RecordClick(ctx context.Context, eventID, resultID string, resultType entities.EntityType) error {
	if eventID == "" || resultID == "" {
		return apperrors.NewValidationError("event id and result id are required")
	}
	if !resultType.Valid() {
		return apperrors.NewValidationError("unknown entity type: " + string(resultType))
	}

	if err := s.events.AttachClick(ctx, eventID, resultID, resultType); err != nil {
		log.Printf("Warning: failed to attach click to event %s: %v", eventID, err)
	}

	return nil
}

// RefreshPopularSearches rebuilds the popular-query summary over the
// configured trailing window. Safe to run while events keep arriving.
func (s *SearchAnalyticsService) RefreshPopularSearches(ctx context.Context) error {
	return s.popular.Refresh(ctx, s.cfg.WindowDays, s.cfg.MinOccurrences, s.cfg.Limit)
}

// PopularSearches returns the current summary as of its last refresh.
func (s *SearchAnalyticsService) PopularSearches(ctx context.Context, limit int) ([]*entities.PopularSearch, error) {
	if limit <= 0 || limit > s.cfg.Limit {
		limit = s.cfg.Limit
	}
	return s.popular.List(ctx, limit)
}

// ZeroResultQueries returns recent queries that matched nothing.
func (s *SearchAnalyticsService) ZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.events.ZeroResultQueries(ctx, limit)
}

// PurgeUserData cascades a user deletion into the analytics and history
// logs the service owns for that user.
func (s *SearchAnalyticsService) PurgeUserData(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("user id is required")
	}

	if err := s.history.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	return s.events.DeleteByUser(ctx, userID)
}
