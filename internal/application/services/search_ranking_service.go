package services

import (
	"sort"

	"github.com/propmatch/search-service/internal/domain/entities"
	"github.com/propmatch/search-service/pkg/config"
)

// SearchRankingService combines the raw per-strategy scores of candidates
// into one ranking. Lexical ts_rank is unbounded, so it is normalized
// against the best rank in the current result set; fuzzy and semantic
// similarities are already in [0, 1].
type SearchRankingService struct {
	wLexical  float64
	wFuzzy    float64
	wSemantic float64
}

// NewSearchRankingService creates a ranking service with the configured
// hybrid weights.
func NewSearchRankingService(cfg config.SearchConfig) *SearchRankingService {
	return &SearchRankingService{
		wLexical:  cfg.LexicalWeight,
		wFuzzy:    cfg.FuzzyWeight,
		wSemantic: cfg.SemanticWeight,
	}
}

// Rank scores and orders candidates for the given mode. Single-strategy
// modes rank purely by their own score; hybrid combines all three with the
// configured weights. Ties break by recency, then by id, so identical
// inputs always order identically.
func (s *SearchRankingService) Rank(candidates []*entities.SearchCandidate, mode entities.SearchMode) []entities.SearchResult {
	if len(candidates) == 0 {
		return []entities.SearchResult{}
	}

	wl, wf, ws := s.weights(mode)

	maxLexical := 0.0
	for _, c := range candidates {
		if c.LexicalRank > maxLexical {
			maxLexical = c.LexicalRank
		}
	}

	results := make([]entities.SearchResult, len(candidates))
	for i, c := range candidates {
		lexical := 0.0
		if maxLexical > 0 {
			lexical = c.LexicalRank / maxLexical
		}
		fuzzy := clamp01(c.FuzzySimilarity)
		semantic := clamp01(c.SemanticSimilarity)

		breakdown := map[string]float64{
			"lexical":  lexical * wl,
			"fuzzy":    fuzzy * wf,
			"semantic": semantic * ws,
		}

		results[i] = entities.SearchResult{
			Record:         c.Record,
			Score:          breakdown["lexical"] + breakdown["fuzzy"] + breakdown["semantic"],
			ScoreBreakdown: breakdown,
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Record.UpdatedAt.Equal(results[j].Record.UpdatedAt) {
			return results[i].Record.UpdatedAt.After(results[j].Record.UpdatedAt)
		}
		return results[i].Record.ID < results[j].Record.ID
	})

	return results
}

func (s *SearchRankingService) weights(mode entities.SearchMode) (lexical, fuzzy, semantic float64) {
	switch mode {
	case entities.SearchModeLexical:
		return 1, 0, 0
	case entities.SearchModeFuzzy:
		return 0, 1, 0
	case entities.SearchModeSemantic:
		return 0, 0, 1
	default:
		return s.wLexical, s.wFuzzy, s.wSemantic
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
