package services

import (
	"context"
	"time"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/pkg/utils"
)

// IndexService is the write path of the index: it derives the lexical
// search text and hands the whole record to the store in one atomic
// replacement, so the stored vector can never lag behind the text.
type IndexService struct {
	index      repositories.SearchIndexRepository
	embeddings repositories.EmbeddingRepository
	normalizer *utils.TextNormalizer
}

// NewIndexService creates a new index service
func NewIndexService(
	index repositories.SearchIndexRepository,
	embeddings repositories.EmbeddingRepository,
	normalizer *utils.TextNormalizer,
) *IndexService {
	return &IndexService{
		index:      index,
		embeddings: embeddings,
		normalizer: normalizer,
	}
}

// Upsert replaces the record for (id, entity type). The normalizer runs
// here, synchronously, as a pipeline step of the write itself.
func (s *IndexService) Upsert(ctx context.Context, record *entities.IndexRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	searchText := s.normalizer.Normalize(record.Title + " " + record.Description)
	return s.index.Upsert(ctx, record, searchText)
}

// Delete removes the index record and its embedding. Both deletes are
// idempotent, so removing an entity that was never indexed succeeds.
func (s *IndexService) Delete(ctx context.Context, id string, entityType entities.EntityType) error {
	if err := s.index.Delete(ctx, id, entityType); err != nil {
		return err
	}
	return s.embeddings.Delete(ctx, id, entityType)
}

// Get returns the record or a NotFound error
func (s *IndexService) Get(ctx context.Context, id string, entityType entities.EntityType) (*entities.IndexRecord, error) {
	return s.index.GetByKey(ctx, id, entityType)
}

// UpsertEmbedding stores or replaces the entity's semantic vector
func (s *IndexService) UpsertEmbedding(ctx context.Context, record *entities.EmbeddingRecord) error {
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now()
	}
	return s.embeddings.Upsert(ctx, record)
}

// GetEmbedding returns the stored vector or a NotFound error
func (s *IndexService) GetEmbedding(ctx context.Context, id string, entityType entities.EntityType) (*entities.EmbeddingRecord, error) {
	return s.embeddings.GetByKey(ctx, id, entityType)
}
