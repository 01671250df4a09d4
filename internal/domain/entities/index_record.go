package entities

import (
	"time"

	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// EntityType identifies the kind of source entity an index record mirrors.
type EntityType string

const (
	EntityTypeUser     EntityType = "user"
	EntityTypeMatch    EntityType = "match"
	EntityTypeNeed     EntityType = "need"
	EntityTypeOffering EntityType = "offering"
)

// AllEntityTypes lists every indexable entity type.
var AllEntityTypes = []EntityType{
	EntityTypeUser,
	EntityTypeMatch,
	EntityTypeNeed,
	EntityTypeOffering,
}

// Valid reports whether t is a known entity type.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeUser, EntityTypeMatch, EntityTypeNeed, EntityTypeOffering:
		return true
	}
	return false
}

// IndexRecord is the denormalized search projection of a source entity.
// The service owns the projection, not the entity itself; records are
// keyed by (ID, EntityType).
type IndexRecord struct {
	ID           string                 `json:"id" db:"id"`
	EntityType   EntityType             `json:"entity_type" db:"entity_type"`
	Title        string                 `json:"title" db:"title"`
	Description  string                 `json:"description" db:"description"`
	Industry     string                 `json:"industry,omitempty" db:"industry"`
	LocationText string                 `json:"location_text,omitempty" db:"location_text"`
	MatchType    string                 `json:"match_type,omitempty" db:"match_type"`
	Metadata     map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt    time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at" db:"updated_at"`
}

// Validate checks the mandatory fields of an index record.
func (r *IndexRecord) Validate() error {
	if r.ID == "" {
		return apperrors.NewValidationError("record id is required")
	}
	if !r.EntityType.Valid() {
		return apperrors.NewValidationError("unknown entity type: " + string(r.EntityType))
	}
	if r.Title == "" {
		return apperrors.NewValidationError("title is required")
	}
	if r.Description == "" {
		return apperrors.NewValidationError("description is required")
	}
	return nil
}
