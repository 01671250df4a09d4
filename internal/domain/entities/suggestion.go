package entities

import (
	"time"
)

// Suggestion is a curated autocomplete entry. Weight is a manual boost
// applied after similarity ordering.
type Suggestion struct {
	ID         string    `json:"id" db:"id"`
	Suggestion string    `json:"suggestion" db:"suggestion"`
	Category   string    `json:"category,omitempty" db:"category"`
	Weight     int       `json:"weight" db:"weight"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// SuggestionMatch is a curated suggestion with its fuzzy similarity to the
// autocomplete input.
type SuggestionMatch struct {
	Suggestion Suggestion `json:"suggestion"`
	Similarity float64    `json:"similarity"`
}
