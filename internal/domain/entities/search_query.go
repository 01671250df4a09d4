package entities

// SearchMode selects the matching strategy for a search request.
type SearchMode string

const (
	SearchModeLexical  SearchMode = "lexical"
	SearchModeFuzzy    SearchMode = "fuzzy"
	SearchModeSemantic SearchMode = "semantic"
	SearchModeHybrid   SearchMode = "hybrid"
)

// Valid reports whether m is a supported search mode.
func (m SearchMode) Valid() bool {
	switch m {
	case SearchModeLexical, SearchModeFuzzy, SearchModeSemantic, SearchModeHybrid:
		return true
	}
	return false
}

// SearchFilters narrows the candidate set before ranking. Filters never
// influence scores.
type SearchFilters struct {
	EntityTypes  []EntityType `json:"entity_types,omitempty"`
	Industry     string       `json:"industry,omitempty"`
	LocationText string       `json:"location_text,omitempty"`
	MatchType    string       `json:"match_type,omitempty"`
}

// Empty reports whether no filter predicate is set.
func (f SearchFilters) Empty() bool {
	return len(f.EntityTypes) == 0 && f.Industry == "" && f.LocationText == "" && f.MatchType == ""
}

// SearchQuery is a single search invocation. Embedding is the query text's
// vector, supplied by the caller; the service never computes embeddings.
type SearchQuery struct {
	Text      string        `json:"query"`
	Mode      SearchMode    `json:"mode"`
	Filters   SearchFilters `json:"filters"`
	Embedding []float32     `json:"embedding,omitempty"`
	UserID    string        `json:"user_id,omitempty"`
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
}
