package repositories

import (
	"context"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// EmbeddingRepository persists entity embeddings for cosine-similarity
// retrieval through the approximate vector index.
type EmbeddingRepository interface {
	Upsert(ctx context.Context, record *entities.EmbeddingRecord) error
	Delete(ctx context.Context, entityID string, entityType entities.EntityType) error
	GetByKey(ctx context.Context, entityID string, entityType entities.EntityType) (*entities.EmbeddingRecord, error)
}
