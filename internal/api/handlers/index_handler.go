package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/propmatch/search-service/internal/domain/entities"
)

// IndexWriter is what the handler needs from the index write path.
type IndexWriter interface {
	Upsert(ctx context.Context, record *entities.IndexRecord) error
	Delete(ctx context.Context, id string, entityType entities.EntityType) error
	Get(ctx context.Context, id string, entityType entities.EntityType) (*entities.IndexRecord, error)
	UpsertEmbedding(ctx context.Context, record *entities.EmbeddingRecord) error
	GetEmbedding(ctx context.Context, id string, entityType entities.EntityType) (*entities.EmbeddingRecord, error)
}

// IndexHandler handles index record HTTP requests from entity source
// systems.
type IndexHandler struct {
	index IndexWriter
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(index IndexWriter) *IndexHandler {
	return &IndexHandler{index: index}
}

type upsertRecordRequest struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Industry     string                 `json:"industry,omitempty"`
	LocationText string                 `json:"location_text,omitempty"`
	MatchType    string                 `json:"match_type,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// UpsertRecord handles PUT /api/index/{type}/{id}
func (h *IndexHandler) UpsertRecord(w http.ResponseWriter, r *http.Request) {
	entityType := entities.EntityType(r.PathValue("type"))
	id := r.PathValue("id")

	var req upsertRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record := &entities.IndexRecord{
		ID:           id,
		EntityType:   entityType,
		Title:        req.Title,
		Description:  req.Description,
		Industry:     req.Industry,
		LocationText: req.LocationText,
		MatchType:    req.MatchType,
		Metadata:     req.Metadata,
	}

	if err := h.index.Upsert(r.Context(), record); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// GetRecord handles GET /api/index/{type}/{id}
func (h *IndexHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := h.index.Get(r.Context(), r.PathValue("id"), entities.EntityType(r.PathValue("type")))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// DeleteRecord handles DELETE /api/index/{type}/{id}. Deleting an absent
// record still returns 204.
func (h *IndexHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.index.Delete(r.Context(), r.PathValue("id"), entities.EntityType(r.PathValue("type"))); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type upsertEmbeddingRequest struct {
	Embedding []float32 `json:"embedding"`
}

// UpsertEmbedding handles PUT /api/index/{type}/{id}/embedding
func (h *IndexHandler) UpsertEmbedding(w http.ResponseWriter, r *http.Request) {
	var req upsertEmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record := &entities.EmbeddingRecord{
		EntityID:   r.PathValue("id"),
		EntityType: entities.EntityType(r.PathValue("type")),
		Embedding:  req.Embedding,
	}

	if err := h.index.UpsertEmbedding(r.Context(), record); err != nil {
		respondWithAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetEmbedding handles GET /api/index/{type}/{id}/embedding
func (h *IndexHandler) GetEmbedding(w http.ResponseWriter, r *http.Request) {
	record, err := h.index.GetEmbedding(r.Context(), r.PathValue("id"), entities.EntityType(r.PathValue("type")))
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}
