package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propmatch/search-service/internal/api/handlers"
	"github.com/propmatch/search-service/internal/domain/entities"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

type stubIndexService struct {
	upserted  []*entities.IndexRecord
	deleted   []string
	embedded  []*entities.EmbeddingRecord
	getErr    error
	upsertErr error
}

func (s *stubIndexService) Upsert(ctx context.Context, record *entities.IndexRecord) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, record)
	return nil
}

func (s *stubIndexService) Delete(ctx context.Context, id string, entityType entities.EntityType) error {
	s.deleted = append(s.deleted, id+"/"+string(entityType))
	return nil
}

func (s *stubIndexService) Get(ctx context.Context, id string, entityType entities.EntityType) (*entities.IndexRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &entities.IndexRecord{ID: id, EntityType: entityType, Title: "Warehouse Space"}, nil
}

func (s *stubIndexService) UpsertEmbedding(ctx context.Context, record *entities.EmbeddingRecord) error {
	s.embedded = append(s.embedded, record)
	return nil
}

func (s *stubIndexService) GetEmbedding(ctx context.Context, id string, entityType entities.EntityType) (*entities.EmbeddingRecord, error) {
	return &entities.EmbeddingRecord{EntityID: id, EntityType: entityType, Embedding: []float32{0.1}}, nil
}

func keyedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.SetPathValue("type", "offering")
	req.SetPathValue("id", "o-1")
	return req
}

func TestIndexHandler_UpsertRecord(t *testing.T) {
	service := &stubIndexService{}
	handler := handlers.NewIndexHandler(service)

	body := `{"title":"Warehouse Space","description":"Storage near the port","industry":"logistics"}`
	w := httptest.NewRecorder()

	handler.UpsertRecord(w, keyedRequest("PUT", "/api/index/offering/o-1", body))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, service.upserted, 1)
	record := service.upserted[0]
	assert.Equal(t, "o-1", record.ID)
	assert.Equal(t, entities.EntityTypeOffering, record.EntityType)
	assert.Equal(t, "logistics", record.Industry)
}

func TestIndexHandler_UpsertRecord_ValidationError(t *testing.T) {
	service := &stubIndexService{upsertErr: apperrors.NewValidationError("title is required")}
	handler := handlers.NewIndexHandler(service)

	w := httptest.NewRecorder()
	handler.UpsertRecord(w, keyedRequest("PUT", "/api/index/offering/o-1", `{"description":"x"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIndexHandler_GetRecord_NotFound(t *testing.T) {
	service := &stubIndexService{getErr: apperrors.NewNotFoundError("index record offering/o-1 not found")}
	handler := handlers.NewIndexHandler(service)

	w := httptest.NewRecorder()
	handler.GetRecord(w, keyedRequest("GET", "/api/index/offering/o-1", ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexHandler_DeleteRecord_AbsentStillNoContent(t *testing.T) {
	service := &stubIndexService{}
	handler := handlers.NewIndexHandler(service)

	w := httptest.NewRecorder()
	handler.DeleteRecord(w, keyedRequest("DELETE", "/api/index/offering/o-1", ""))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"o-1/offering"}, service.deleted)
}

func TestIndexHandler_UpsertEmbedding(t *testing.T) {
	service := &stubIndexService{}
	handler := handlers.NewIndexHandler(service)

	w := httptest.NewRecorder()
	handler.UpsertEmbedding(w, keyedRequest("PUT", "/api/index/offering/o-1/embedding", `{"embedding":[0.1,0.2,0.3]}`))

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, service.embedded, 1)
	assert.Equal(t, "o-1", service.embedded[0].EntityID)
	assert.Len(t, service.embedded[0].Embedding, 3)
}

func TestIndexHandler_GetEmbedding(t *testing.T) {
	handler := handlers.NewIndexHandler(&stubIndexService{})

	w := httptest.NewRecorder()
	handler.GetEmbedding(w, keyedRequest("GET", "/api/index/offering/o-1/embedding", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var record entities.EmbeddingRecord
	err := json.NewDecoder(w.Body).Decode(&record)
	require.NoError(t, err)
	assert.Equal(t, "o-1", record.EntityID)
}
