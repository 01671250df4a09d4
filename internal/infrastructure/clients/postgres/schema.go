package postgres

import (
	"context"
	"fmt"
)

// InitSchema creates the extensions, tables and indexes the service needs.
// It is idempotent and runs on startup, mirroring how the search tables
// were originally provisioned by migration.
//
// embeddingDim fixes the vector column width and must match the external
// embedding generator. ivfflatLists partitions the approximate vector
// index; the right value grows with corpus size.
func (c *Client) InitSchema(ctx context.Context, embeddingDim, ivfflatLists int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
		`CREATE EXTENSION IF NOT EXISTS vector`,

		`CREATE TABLE IF NOT EXISTS search_index (
			id            TEXT NOT NULL,
			entity_type   TEXT NOT NULL,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL,
			industry      TEXT,
			location_text TEXT,
			match_type    TEXT,
			metadata      JSONB NOT NULL DEFAULT '{}'::jsonb,
			search_text   TEXT NOT NULL DEFAULT '',
			search_vector TSVECTOR NOT NULL DEFAULT ''::tsvector,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (id, entity_type)
		)`,
		`CREATE INDEX IF NOT EXISTS search_index_vector_idx ON search_index USING gin (search_vector)`,
		`CREATE INDEX IF NOT EXISTS search_index_title_trgm_idx ON search_index USING gin (title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS search_index_description_trgm_idx ON search_index USING gin (description gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS search_index_updated_at_idx ON search_index (updated_at DESC)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS search_embeddings (
			entity_id   TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			embedding   VECTOR(%d) NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (entity_id, entity_type)
		)`, embeddingDim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS search_embeddings_cosine_idx
			ON search_embeddings USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d)`, ivfflatLists),

		`CREATE TABLE IF NOT EXISTS search_analytics (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT,
			query               TEXT NOT NULL,
			search_mode         TEXT NOT NULL,
			filters             JSONB,
			result_count        INTEGER NOT NULL DEFAULT 0,
			response_time_ms    INTEGER NOT NULL DEFAULT 0,
			clicked_result_id   TEXT,
			clicked_result_type TEXT,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS search_analytics_created_at_idx ON search_analytics (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS search_analytics_query_idx ON search_analytics (query)`,

		`CREATE TABLE IF NOT EXISTS popular_searches (
			query            TEXT PRIMARY KEY,
			search_count     INTEGER NOT NULL,
			last_searched_at TIMESTAMPTZ NOT NULL,
			refreshed_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS search_suggestions (
			id         TEXT PRIMARY KEY,
			suggestion TEXT NOT NULL UNIQUE,
			category   TEXT,
			weight     INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS search_suggestions_trgm_idx ON search_suggestions USING gin (suggestion gin_trgm_ops)`,

		`CREATE TABLE IF NOT EXISTS user_search_history (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			query      TEXT NOT NULL,
			filters    JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS user_search_history_user_idx ON user_search_history (user_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
