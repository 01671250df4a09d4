package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// EmbeddingAdapter implements EmbeddingRepository on pgvector
type EmbeddingAdapter struct {
	client *postgres.Client
	dim    int
}

// NewEmbeddingAdapter creates a new embedding adapter. dim is the fixed
// vector width agreed with the external embedding generator.
func NewEmbeddingAdapter(client *postgres.Client, dim int) repositories.EmbeddingRepository {
	return &EmbeddingAdapter{client: client, dim: dim}
}

// Upsert stores or replaces the vector for (entity_id, entity_type)
func (a *EmbeddingAdapter) Upsert(ctx context.Context, record *entities.EmbeddingRecord) error {
	if len(record.Embedding) != a.dim {
		return apperrors.NewValidationError(
			fmt.Sprintf("embedding must have %d dimensions, got %d", a.dim, len(record.Embedding)))
	}
	if !record.EntityType.Valid() {
		return apperrors.NewValidationError("unknown entity type: " + string(record.EntityType))
	}

	query := `
		INSERT INTO search_embeddings (entity_id, entity_type, embedding, updated_at)
		VALUES ($1, $2, $3::vector, $4)
		ON CONFLICT (entity_id, entity_type) DO UPDATE SET
			embedding  = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		record.EntityID,
		record.EntityType,
		pgvector.NewVector(record.Embedding),
		record.UpdatedAt,
	)

	if err != nil {
		return storageError("failed to upsert embedding", err)
	}

	return nil
}

// Delete removes the vector. Deleting an absent key is a no-op.
func (a *EmbeddingAdapter) Delete(ctx context.Context, entityID string, entityType entities.EntityType) error {
	query := `DELETE FROM search_embeddings WHERE entity_id = $1 AND entity_type = $2`

	_, err := a.client.DB().ExecContext(ctx, query, entityID, entityType)
	if err != nil {
		return storageError("failed to delete embedding", err)
	}

	return nil
}

// GetByKey retrieves an embedding by its composite key
func (a *EmbeddingAdapter) GetByKey(ctx context.Context, entityID string, entityType entities.EntityType) (*entities.EmbeddingRecord, error) {
	query := `
		SELECT entity_id, entity_type, embedding, updated_at
		FROM search_embeddings
		WHERE entity_id = $1 AND entity_type = $2
	`

	record := &entities.EmbeddingRecord{}
	var vec pgvector.Vector

	err := a.client.DB().QueryRowContext(ctx, query, entityID, entityType).Scan(
		&record.EntityID,
		&record.EntityType,
		&vec,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("embedding %s/%s not found", entityType, entityID))
	}
	if err != nil {
		return nil, storageError("failed to get embedding", err)
	}

	record.Embedding = vec.Slice()
	return record, nil
}
