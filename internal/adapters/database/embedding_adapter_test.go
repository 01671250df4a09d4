package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmatch/search-service/internal/adapters/database"
	"github.com/propmatch/search-service/internal/domain/entities"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

func TestEmbeddingAdapter_Upsert(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewEmbeddingAdapter(client, 3)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (entity_id, entity_type) DO UPDATE")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adapter.Upsert(context.Background(), &entities.EmbeddingRecord{
		EntityID:   "o-1",
		EntityType: entities.EntityTypeOffering,
		Embedding:  []float32{0.1, 0.2, 0.3},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddingAdapter_Upsert_RejectsWrongDimension(t *testing.T) {
	client, _ := setupMockDB(t)
	adapter := database.NewEmbeddingAdapter(client, 1536)

	err := adapter.Upsert(context.Background(), &entities.EmbeddingRecord{
		EntityID:   "o-1",
		EntityType: entities.EntityTypeOffering,
		Embedding:  []float32{0.1, 0.2},
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestEmbeddingAdapter_Delete_AbsentKeyIsNoOp(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewEmbeddingAdapter(client, 3)

	mock.ExpectExec("DELETE FROM search_embeddings").
		WithArgs("ghost", entities.EntityTypeMatch).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Delete(context.Background(), "ghost", entities.EntityTypeMatch)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddingAdapter_GetByKey(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewEmbeddingAdapter(client, 3)

	rows := sqlmock.NewRows([]string{"entity_id", "entity_type", "embedding", "updated_at"}).
		AddRow("o-1", "offering", "[0.1,0.2,0.3]", time.Now())

	mock.ExpectQuery("FROM search_embeddings").
		WithArgs("o-1", entities.EntityTypeOffering).
		WillReturnRows(rows)

	record, err := adapter.GetByKey(context.Background(), "o-1", entities.EntityTypeOffering)

	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, record.Embedding)
	assert.NoError(t, mock.ExpectationsWereMet())
}
