package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
// Events are append-only; once written they are never mutated except for
// best-effort click attribution.
type SearchEvent struct {
	ID                string                 `json:"id" db:"id"`
	UserID            string                 `json:"user_id,omitempty" db:"user_id"`
	Query             string                 `json:"query" db:"query"`
	SearchMode        string                 `json:"search_mode" db:"search_mode"`
	Filters           map[string]interface{} `json:"filters,omitempty" db:"filters"`
	ResultCount       int                    `json:"result_count" db:"result_count"`
	ResponseTimeMs    int                    `json:"response_time_ms" db:"response_time_ms"`
	ClickedResultID   string                 `json:"clicked_result_id,omitempty" db:"clicked_result_id"`
	ClickedResultType string                 `json:"clicked_result_type,omitempty" db:"clicked_result_type"`
	CreatedAt         time.Time              `json:"created_at" db:"created_at"`
}

// PopularSearch is one row of the materialized popular-query aggregate.
// It reflects the state as of the last refresh, not live data.
type PopularSearch struct {
	Query          string    `json:"query" db:"query"`
	SearchCount    int       `json:"search_count" db:"search_count"`
	LastSearchedAt time.Time `json:"last_searched_at" db:"last_searched_at"`
	RefreshedAt    time.Time `json:"refreshed_at" db:"refreshed_at"`
}
