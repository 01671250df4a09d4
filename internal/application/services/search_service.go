package services

import (
	"context"
	"strings"
	"time"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/pkg/config"
	apperrors "github.com/propmatch/search-service/pkg/errors"
	"github.com/propmatch/search-service/pkg/utils"
)

// searchTelemetry is what the query engine needs from the analytics
// recorder. Both calls are fire-and-forget.
type searchTelemetry interface {
	TrackSearch(ctx context.Context, event *entities.SearchEvent)
	TrackHistory(ctx context.Context, entry *entities.SearchHistoryEntry)
}

// SearchService is the hybrid query engine: it validates the request,
// selects candidates from the index, ranks them, and emits telemetry for
// every parsed query, including ones that matched nothing.
type SearchService struct {
	index      repositories.SearchIndexRepository
	normalizer *utils.TextNormalizer
	ranker     *SearchRankingService
	telemetry  searchTelemetry
	cfg        config.SearchConfig
}

// NewSearchService creates a new search service
func NewSearchService(
	index repositories.SearchIndexRepository,
	normalizer *utils.TextNormalizer,
	ranker *SearchRankingService,
	telemetry searchTelemetry,
	cfg config.SearchConfig,
) *SearchService {
	return &SearchService{
		index:      index,
		normalizer: normalizer,
		ranker:     ranker,
		telemetry:  telemetry,
		cfg:        cfg,
	}
}

// Search runs one search invocation.
func (s *SearchService) Search(ctx context.Context, query entities.SearchQuery) (*entities.SearchResponse, error) {
	if !query.Mode.Valid() {
		return nil, apperrors.NewInvalidModeError("unsupported search mode: " + string(query.Mode))
	}
	if err := validateFilters(query.Filters); err != nil {
		return nil, err
	}
	if query.Mode == entities.SearchModeSemantic && len(query.Embedding) == 0 {
		return nil, apperrors.NewValidationError("semantic mode requires a query embedding")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	start := time.Now()
	text := strings.TrimSpace(query.Text)

	var results []entities.SearchResult
	var total int

	if text == "" && len(query.Embedding) == 0 {
		// Filter-only query: no scores, newest first.
		records, err := s.index.ListByRecency(ctx, query.Filters, limit, offset)
		if err != nil {
			return nil, err
		}
		results = make([]entities.SearchResult, len(records))
		for i, r := range records {
			results[i] = entities.SearchResult{Record: r}
		}
		total = len(results)
	} else {
		candidates, err := s.index.SelectCandidates(ctx, repositories.CandidateParams{
			Text:           text,
			NormalizedText: s.normalizer.Normalize(text),
			Embedding:      query.Embedding,
			Mode:           query.Mode,
			Filters:        query.Filters,
			FuzzyThreshold: s.cfg.FuzzyThreshold,
			Limit:          s.cfg.CandidateLimit,
		})
		if err != nil {
			return nil, err
		}

		ranked := s.ranker.Rank(candidates, query.Mode)
		total = len(ranked)
		results = paginate(ranked, offset, limit)
	}

	elapsed := int(time.Since(start).Milliseconds())

	s.telemetry.TrackSearch(ctx, &entities.SearchEvent{
		UserID:         query.UserID,
		Query:          text,
		SearchMode:     string(query.Mode),
		Filters:        filtersSnapshot(query.Filters),
		ResultCount:    total,
		ResponseTimeMs: elapsed,
	})

	if query.UserID != "" && text != "" {
		s.telemetry.TrackHistory(ctx, &entities.SearchHistoryEntry{
			UserID:  query.UserID,
			Query:   text,
			Filters: filtersSnapshot(query.Filters),
		})
	}

	return &entities.SearchResponse{
		Results:        results,
		ResultCount:    total,
		ResponseTimeMs: elapsed,
	}, nil
}

func validateFilters(filters entities.SearchFilters) error {
	for _, t := range filters.EntityTypes {
		if !t.Valid() {
			return apperrors.NewInvalidFilterError("unknown entity type filter: " + string(t))
		}
	}
	return nil
}

func paginate(results []entities.SearchResult, offset, limit int) []entities.SearchResult {
	if offset >= len(results) {
		return []entities.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

// filtersSnapshot captures the filters as they were at query time for the
// analytics log.
func filtersSnapshot(filters entities.SearchFilters) map[string]interface{} {
	if filters.Empty() {
		return nil
	}

	snapshot := map[string]interface{}{}
	if len(filters.EntityTypes) > 0 {
		types := make([]string, len(filters.EntityTypes))
		for i, t := range filters.EntityTypes {
			types[i] = string(t)
		}
		snapshot["entity_types"] = types
	}
	if filters.Industry != "" {
		snapshot["industry"] = filters.Industry
	}
	if filters.LocationText != "" {
		snapshot["location_text"] = filters.LocationText
	}
	if filters.MatchType != "" {
		snapshot["match_type"] = filters.MatchType
	}
	return snapshot
}
