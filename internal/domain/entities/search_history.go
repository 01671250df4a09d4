package entities

import (
	"time"
)

// SearchHistoryEntry is one append-only per-user search log row, used only
// for personalization. Entries are cascade-deleted with the user.
type SearchHistoryEntry struct {
	ID        string                 `json:"id" db:"id"`
	UserID    string                 `json:"user_id" db:"user_id"`
	Query     string                 `json:"query" db:"query"`
	Filters   map[string]interface{} `json:"filters,omitempty" db:"filters"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// PersonalSuggestion is an aggregated history entry for one user: a query
// they ran, how often, and when last.
type PersonalSuggestion struct {
	Query          string    `json:"query" db:"query"`
	Frequency      int       `json:"frequency" db:"frequency"`
	LastSearchedAt time.Time `json:"last_searched_at" db:"last_searched_at"`
}
