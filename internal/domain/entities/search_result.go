package entities

// SearchCandidate is one index record with the raw per-strategy scores the
// store computed for it. Ranking normalizes and combines these downstream.
type SearchCandidate struct {
	Record             *IndexRecord
	LexicalRank        float64
	FuzzySimilarity    float64
	SemanticSimilarity float64
}

// SearchResult is a ranked hit returned to the caller.
type SearchResult struct {
	Record         *IndexRecord       `json:"record"`
	Score          float64            `json:"score"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
}

// SearchResponse is the full result set for one search invocation.
type SearchResponse struct {
	Results        []SearchResult `json:"results"`
	ResultCount    int            `json:"result_count"`
	ResponseTimeMs int            `json:"response_time_ms"`
}
