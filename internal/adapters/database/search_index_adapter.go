package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/internal/domain/repositories"
	"github.com/propmatch/search-service/internal/infrastructure/clients/postgres"
	apperrors "github.com/propmatch/search-service/pkg/errors"
)

// minSemanticSimilarity keeps the hybrid candidate set from flooding with
// records whose embeddings are only weakly related to the query.
const minSemanticSimilarity = 0.5

// SearchIndexAdapter implements SearchIndexRepository on Postgres using
// tsvector full text, pg_trgm similarity and pgvector cosine distance.
type SearchIndexAdapter struct {
	client *postgres.Client
	probes int
}

// NewSearchIndexAdapter creates a new search index adapter. probes tunes
// how many ivfflat partitions a semantic query visits.
func NewSearchIndexAdapter(client *postgres.Client, probes int) repositories.SearchIndexRepository {
	if probes <= 0 {
		probes = 10
	}
	return &SearchIndexAdapter{client: client, probes: probes}
}

// Upsert replaces the whole (id, entity_type) row in one statement. The
// lexical search vector is derived from searchText inside the same write,
// so a reader can never observe a record whose vector disagrees with its
// text.
func (a *SearchIndexAdapter) Upsert(ctx context.Context, record *entities.IndexRecord, searchText string) error {
	metadata, err := json.Marshal(record.Metadata)
	if err != nil {
		return apperrors.NewValidationError("metadata is not serializable: " + err.Error())
	}

	query := `
		INSERT INTO search_index
			(id, entity_type, title, description, industry, location_text, match_type,
			 metadata, search_text, search_vector, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, to_tsvector('simple', $9), $10, $11)
		ON CONFLICT (id, entity_type) DO UPDATE SET
			title         = EXCLUDED.title,
			description   = EXCLUDED.description,
			industry      = EXCLUDED.industry,
			location_text = EXCLUDED.location_text,
			match_type    = EXCLUDED.match_type,
			metadata      = EXCLUDED.metadata,
			search_text   = EXCLUDED.search_text,
			search_vector = EXCLUDED.search_vector,
			updated_at    = EXCLUDED.updated_at
	`

	_, err = a.client.DB().ExecContext(ctx, query,
		record.ID,
		record.EntityType,
		record.Title,
		record.Description,
		nullString(record.Industry),
		nullString(record.LocationText),
		nullString(record.MatchType),
		metadata,
		searchText,
		record.CreatedAt,
		record.UpdatedAt,
	)

	if err != nil {
		return storageError("failed to upsert index record", err)
	}

	return nil
}

// Delete removes the record. Deleting an absent key is a no-op.
func (a *SearchIndexAdapter) Delete(ctx context.Context, id string, entityType entities.EntityType) error {
	query := `DELETE FROM search_index WHERE id = $1 AND entity_type = $2`

	_, err := a.client.DB().ExecContext(ctx, query, id, entityType)
	if err != nil {
		return storageError("failed to delete index record", err)
	}

	return nil
}

// GetByKey retrieves a record by its composite key
func (a *SearchIndexAdapter) GetByKey(ctx context.Context, id string, entityType entities.EntityType) (*entities.IndexRecord, error) {
	query := `
		SELECT id, entity_type, title, description, industry, location_text, match_type,
		       metadata, created_at, updated_at
		FROM search_index
		WHERE id = $1 AND entity_type = $2
	`

	record, err := scanIndexRecord(a.client.DB().QueryRowContext(ctx, query, id, entityType))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("index record %s/%s not found", entityType, id))
	}
	if err != nil {
		return nil, storageError("failed to get index record", err)
	}

	return record, nil
}

// SelectCandidates returns records matching params.Mode's strategy together
// with the raw lexical, fuzzy and semantic scores. Filters narrow the set
// before scoring; they never contribute to a score.
func (a *SearchIndexAdapter) SelectCandidates(ctx context.Context, params repositories.CandidateParams) ([]*entities.SearchCandidate, error) {
	args := []interface{}{}
	argCount := 1

	bind := func(v interface{}) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", argCount)
		argCount++
		return p
	}

	lexicalExpr := "0::float8"
	lexicalPred := ""
	if params.NormalizedText != "" {
		p := bind(params.NormalizedText)
		lexicalExpr = fmt.Sprintf("ts_rank(i.search_vector, plainto_tsquery('simple', %s))", p)
		lexicalPred = fmt.Sprintf("i.search_vector @@ plainto_tsquery('simple', %s)", p)
	}

	fuzzyExpr := "0::float8"
	fuzzyPred := ""
	if params.Text != "" {
		p := bind(params.Text)
		t := bind(params.FuzzyThreshold)
		fuzzyExpr = fmt.Sprintf("GREATEST(similarity(i.title, %s), similarity(i.description, %s))", p, p)
		fuzzyPred = fmt.Sprintf("(similarity(i.title, %s) >= %s::float8 OR similarity(i.description, %s) >= %s::float8)", p, t, p, t)
	}

	semanticExpr := "0::float8"
	semanticPred := ""
	if len(params.Embedding) > 0 {
		p := bind(pgvector.NewVector(params.Embedding))
		semanticExpr = fmt.Sprintf("COALESCE(1 - (e.embedding <=> %s::vector), 0)", p)
		semanticPred = fmt.Sprintf("(e.embedding IS NOT NULL AND 1 - (e.embedding <=> %s::vector) >= %v)", p, minSemanticSimilarity)
	}

	var matchPreds []string
	switch params.Mode {
	case entities.SearchModeLexical:
		matchPreds = append(matchPreds, lexicalPred)
	case entities.SearchModeFuzzy:
		matchPreds = append(matchPreds, fuzzyPred)
	case entities.SearchModeSemantic:
		matchPreds = append(matchPreds, semanticPred)
	default:
		for _, pred := range []string{lexicalPred, fuzzyPred, semanticPred} {
			if pred != "" {
				matchPreds = append(matchPreds, pred)
			}
		}
	}

	if len(matchPreds) == 0 {
		return []*entities.SearchCandidate{}, nil
	}

	where := "WHERE ("
	for i, pred := range matchPreds {
		if pred == "" {
			return []*entities.SearchCandidate{}, nil
		}
		if i > 0 {
			where += " OR "
		}
		where += pred
	}
	where += ")"
	where += filterClauses(params.Filters, bind)

	query := fmt.Sprintf(`
		SELECT * FROM (
			SELECT i.id, i.entity_type, i.title, i.description, i.industry, i.location_text,
			       i.match_type, i.metadata, i.created_at, i.updated_at,
			       %s AS lexical_rank,
			       %s AS fuzzy_similarity,
			       %s AS semantic_similarity
			FROM search_index i
			LEFT JOIN search_embeddings e
			       ON e.entity_id = i.id AND e.entity_type = i.entity_type
			%s
		) c
		ORDER BY GREATEST(c.lexical_rank, c.fuzzy_similarity, c.semantic_similarity) DESC,
		         c.updated_at DESC
		LIMIT %s
	`, lexicalExpr, fuzzyExpr, semanticExpr, where, bind(params.Limit))

	// Semantic queries go through the approximate ivfflat index, whose
	// probe count is a session setting scoped with SET LOCAL, so they run
	// inside a short read-only transaction.
	if len(params.Embedding) > 0 {
		tx, err := a.client.BeginTx(ctx)
		if err != nil {
			return nil, storageError("failed to begin candidate query", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL ivfflat.probes = %d", a.probes)); err != nil {
			return nil, storageError("failed to set ivfflat probes", err)
		}

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, storageError("failed to select search candidates", err)
		}

		candidates, err := scanCandidates(rows)
		if err != nil {
			return nil, err
		}

		if err := tx.Commit(); err != nil {
			return nil, storageError("failed to finish candidate query", err)
		}
		return candidates, nil
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to select search candidates", err)
	}

	return scanCandidates(rows)
}

func scanCandidates(rows *sql.Rows) ([]*entities.SearchCandidate, error) {
	defer rows.Close()

	candidates := []*entities.SearchCandidate{}
	for rows.Next() {
		record := &entities.IndexRecord{}
		candidate := &entities.SearchCandidate{Record: record}
		var industry, locationText, matchType sql.NullString
		var metadata []byte

		err := rows.Scan(
			&record.ID,
			&record.EntityType,
			&record.Title,
			&record.Description,
			&industry,
			&locationText,
			&matchType,
			&metadata,
			&record.CreatedAt,
			&record.UpdatedAt,
			&candidate.LexicalRank,
			&candidate.FuzzySimilarity,
			&candidate.SemanticSimilarity,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search candidate", err)
		}

		record.Industry = industry.String
		record.LocationText = locationText.String
		record.MatchType = matchType.String
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
				return nil, apperrors.NewInternalError("failed to decode record metadata", err)
			}
		}

		candidates = append(candidates, candidate)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating search candidates", err)
	}

	return candidates, nil
}

// ListByRecency serves filter-only queries: no text, no scores, newest
// records first.
func (a *SearchIndexAdapter) ListByRecency(ctx context.Context, filters entities.SearchFilters, limit, offset int) ([]*entities.IndexRecord, error) {
	args := []interface{}{}
	argCount := 1

	bind := func(v interface{}) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", argCount)
		argCount++
		return p
	}

	query := `
		SELECT i.id, i.entity_type, i.title, i.description, i.industry, i.location_text,
		       i.match_type, i.metadata, i.created_at, i.updated_at
		FROM search_index i
		WHERE 1=1
	`
	query += filterClauses(filters, bind)
	query += fmt.Sprintf(" ORDER BY i.updated_at DESC LIMIT %s OFFSET %s", bind(limit), bind(offset))

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError("failed to list index records", err)
	}
	defer rows.Close()

	records := []*entities.IndexRecord{}
	for rows.Next() {
		record, err := scanIndexRecord(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan index record", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating index records", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIndexRecord(row rowScanner) (*entities.IndexRecord, error) {
	record := &entities.IndexRecord{}
	var industry, locationText, matchType sql.NullString
	var metadata []byte

	err := row.Scan(
		&record.ID,
		&record.EntityType,
		&record.Title,
		&record.Description,
		&industry,
		&locationText,
		&matchType,
		&metadata,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Industry = industry.String
	record.LocationText = locationText.String
	record.MatchType = matchType.String
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &record.Metadata); err != nil {
			return nil, err
		}
	}

	return record, nil
}

// filterClauses appends AND predicates for each set filter field.
func filterClauses(filters entities.SearchFilters, bind func(interface{}) string) string {
	clause := ""
	if len(filters.EntityTypes) > 0 {
		types := make([]string, len(filters.EntityTypes))
		for i, t := range filters.EntityTypes {
			types[i] = string(t)
		}
		clause += fmt.Sprintf(" AND i.entity_type = ANY(%s)", bind(pq.Array(types)))
	}
	if filters.Industry != "" {
		clause += fmt.Sprintf(" AND i.industry = %s", bind(filters.Industry))
	}
	if filters.LocationText != "" {
		clause += fmt.Sprintf(" AND i.location_text ILIKE %s", bind("%"+filters.LocationText+"%"))
	}
	if filters.MatchType != "" {
		clause += fmt.Sprintf(" AND i.match_type = %s", bind(filters.MatchType))
	}
	return clause
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
