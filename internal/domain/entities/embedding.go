package entities

import (
	"time"
)

// EmbeddingRecord stores one entity's semantic vector. Vectors are produced
// by an external embedding generator; the service only stores and compares
// them by cosine similarity.
type EmbeddingRecord struct {
	EntityID   string     `json:"entity_id" db:"entity_id"`
	EntityType EntityType `json:"entity_type" db:"entity_type"`
	Embedding  []float32  `json:"embedding" db:"embedding"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
