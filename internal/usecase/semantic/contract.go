package semantic

import (
	"context"

	"github.com/evvalley/search-api/internal/domain"
	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/domain/query"
)

// Request is one semantic search invocation.
type Request struct {
	Query string
	// Category narrows the search to one listing collection. Empty means
	// cars first, then every collection during fallback.
	Category listing.Category
	// Filter carries explicit client-side constraints. Set fields win over
	// anything extracted from the query text.
	Filter listing.Filter
}

// Ranked is one result row with its similarity score. Keyword-tier results
// carry a zero score.
type Ranked struct {
	Listing    listing.Listing
	Similarity float64
}

// Result is the semantic search outcome. Err is a stable machine-readable
// tag, not prose; the transport forwards it verbatim.
type Result struct {
	Vehicles []Ranked
	// Semantic is true only when results came from the vector tier.
	Semantic bool
	// Params echoes the filters extracted from the query text.
	Params query.Filters
	Err    string
	Debug  *Debug
}

// Error tags returned in Result.Err.
const (
	ErrTagMissingKey      = "missing_openai_key"
	ErrTagEmbeddingFailed = "embedding_failed"
)

// Fallback tiers, reported in Debug and metrics.
const (
	TierVector  = "vector"
	TierKeyword = "keyword"
	TierNone    = "none"
)

// Debug carries per-request pipeline detail for diagnostics.
type Debug struct {
	Tier         string  `json:"tier"`
	Matches      int     `json:"matches"`
	AfterFilters int     `json:"afterFilters"`
	PromptTokens int     `json:"promptTokens"`
	Threshold    float64 `json:"threshold"`
}

// MatchRepo runs the vector similarity search.
type MatchRepo interface {
	MatchVehicles(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error)
}

// ListingRepo fetches and searches listing rows.
type ListingRepo interface {
	FetchByIDs(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error)
	SearchKeyword(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error)
}
