package repositories

import (
	"context"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// CandidateParams drives one candidate-selection query against the index.
// NormalizedText is the stop-worded, stemmed form of Text used for lexical
// matching; Text itself feeds trigram fuzzy matching.
type CandidateParams struct {
	Text           string
	NormalizedText string
	Embedding      []float32
	Mode           entities.SearchMode
	Filters        entities.SearchFilters
	FuzzyThreshold float64
	Limit          int
}

// SearchIndexRepository persists denormalized index records and selects
// scored candidates for ranking.
type SearchIndexRepository interface {
	// Upsert replaces the whole record for (ID, EntityType) in a single
	// statement, recomputing the stored lexical vector from searchText as
	// part of the same write.
	Upsert(ctx context.Context, record *entities.IndexRecord, searchText string) error

	// Delete removes the record. Deleting an absent key is a no-op.
	Delete(ctx context.Context, id string, entityType entities.EntityType) error

	// GetByKey returns the record or a NotFound error.
	GetByKey(ctx context.Context, id string, entityType entities.EntityType) (*entities.IndexRecord, error)

	// SelectCandidates returns matching records with raw per-strategy
	// scores, filtered but not yet ranked.
	SelectCandidates(ctx context.Context, params CandidateParams) ([]*entities.SearchCandidate, error)

	// ListByRecency returns filtered records ordered by updated_at
	// descending, for filter-only queries with empty text.
	ListByRecency(ctx context.Context, filters entities.SearchFilters, limit, offset int) ([]*entities.IndexRecord, error)
}
