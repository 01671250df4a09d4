package database

import (
	"context"
	"fmt"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// PopularSearchAdapter maintains the materialized popular-query summary.
type PopularSearchAdapter struct {
	client *postgres.Client
}

// NewPopularSearchAdapter creates a new popular search adapter
func NewPopularSearchAdapter(client *postgres.Client) repositories.PopularSearchRepository {
	return &PopularSearchAdapter{client: client}
}

// Refresh rebuilds the summary from scratch inside one transaction.
// Concurrent readers keep seeing the previous summary until the commit,
// then atomically see the new one; ongoing event inserts are unaffected.
func (a *PopularSearchAdapter) Refresh(ctx context.Context, windowDays, minOccurrences, limit int) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return storageError("failed to begin popular search refresh", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM popular_searches`); err != nil {
		return storageError("failed to clear popular searches", err)
	}

	rebuild := fmt.Sprintf(`
		INSERT INTO popular_searches (query, search_count, last_searched_at, refreshed_at)
		SELECT query, COUNT(*) AS search_count, MAX(created_at) AS last_searched_at, now()
		FROM search_analytics
		WHERE created_at >= now() - INTERVAL '%d days'
		  AND query <> ''
		GROUP BY query
		HAVING COUNT(*) >= $1
		ORDER BY search_count DESC, last_searched_at DESC
		LIMIT $2
	`, windowDays)

	if _, err := tx.ExecContext(ctx, rebuild, minOccurrences, limit); err != nil {
		return storageError("failed to rebuild popular searches", err)
	}

	if err := tx.Commit(); err != nil {
		return storageError("failed to commit popular search refresh", err)
	}

	return nil
}

// List returns the current summary ordered by frequency descending.
func (a *PopularSearchAdapter) List(ctx context.Context, limit int) ([]*entities.PopularSearch, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT query, search_count, last_searched_at, refreshed_at
		FROM popular_searches
		ORDER BY search_count DESC, last_searched_at DESC
		LIMIT $1
	`

	rows, err := a.client.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storageError("failed to list popular searches", err)
	}
	defer rows.Close()

	popular := []*entities.PopularSearch{}
	for rows.Next() {
		p := &entities.PopularSearch{}
		if err := rows.Scan(&p.Query, &p.SearchCount, &p.LastSearchedAt, &p.RefreshedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan popular search", err)
		}
		popular = append(popular, p)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating popular searches", err)
	}

	return popular, nil
}
