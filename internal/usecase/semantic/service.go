// Package semantic orchestrates the tiered semantic search pipeline:
// embed the query, similarity-search the vector index, re-fetch and
// hard-filter the candidates, and degrade to keyword search when the
// vector tier yields nothing.
package semantic

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/evvalley/search-api/internal/domain"
	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/domain/query"
	"github.com/evvalley/search-api/internal/metrics"
)

// Config tunes the pipeline.
type Config struct {
	// SimilarityThreshold is the minimum cosine similarity for a vector
	// match.
	SimilarityThreshold float64
	// MatchLimit caps candidates returned by the vector index.
	MatchLimit int
	// KeywordLimit caps results per category in the keyword tier.
	KeywordLimit int
}

// Service runs semantic searches. The embedder may be nil when no provider
// key is configured; searches then report the missing key instead of
// failing.
type Service struct {
	embedder domain.Embedder
	matches  MatchRepo
	listings ListingRepo
	cfg      Config
	log      *zap.Logger
}

// New creates the semantic search service.
func New(embedder domain.Embedder, matches MatchRepo, listings ListingRepo, cfg Config, log *zap.Logger) *Service {
	return &Service{
		embedder: embedder,
		matches:  matches,
		listings: listings,
		cfg:      cfg,
		log:      log,
	}
}

// Search resolves a query through the tiers. It never returns a Go error:
// every outcome, including provider failures, is a well-formed Result the
// transport serializes as-is.
func (s *Service) Search(ctx context.Context, req Request) Result {
	log := s.log

	q := strings.TrimSpace(req.Query)
	if q == "" {
		return Result{Vehicles: []Ranked{}}
	}

	parsed := query.Parse(q)
	res := Result{
		Vehicles: []Ranked{},
		Params:   parsed,
		Debug:    &Debug{Tier: TierNone, Threshold: s.cfg.SimilarityThreshold},
	}

	if s.embedder == nil {
		res.Err = ErrTagMissingKey
		metrics.SearchTierTotal.WithLabelValues(TierNone).Inc()
		return res
	}

	emb, err := s.embedder.Embed(ctx, q)
	if err != nil {
		// A provider failure is not a relevance miss: surface it rather
		// than silently degrading to keyword results.
		log.Warn("embedding failed", zap.String("query", q), zap.Error(err))
		res.Err = ErrTagEmbeddingFailed
		metrics.SearchTierTotal.WithLabelValues(TierNone).Inc()
		return res
	}
	res.Debug.PromptTokens = emb.PromptTokens

	filter := mergeFilter(parsed, req)

	if ranked, ok := s.vectorTier(ctx, log, emb.Embedding, filter, res.Debug); ok {
		res.Vehicles = ranked
		res.Semantic = true
		res.Debug.Tier = TierVector
		metrics.SearchTierTotal.WithLabelValues(TierVector).Inc()
		return res
	}

	if ranked, ok := s.keywordTier(ctx, log, q, req.Category); ok {
		res.Vehicles = ranked
		res.Debug.Tier = TierKeyword
		metrics.SearchTierTotal.WithLabelValues(TierKeyword).Inc()
		return res
	}

	metrics.SearchTierTotal.WithLabelValues(TierNone).Inc()
	return res
}

// vectorTier runs the similarity search and hard-filters the candidates.
// ok is false when the tier produced nothing and fallback should run.
func (s *Service) vectorTier(
	ctx context.Context, log *zap.Logger, embedding []float32, filter listing.Filter, dbg *Debug,
) ([]Ranked, bool) {
	matches, err := s.matches.MatchVehicles(ctx, embedding, s.cfg.SimilarityThreshold, s.cfg.MatchLimit)
	if err != nil {
		log.Warn("vector search failed", zap.Error(err))
		return nil, false
	}
	dbg.Matches = len(matches)
	if len(matches) == 0 {
		return nil, false
	}

	ids := make([]string, len(matches))
	simByID := make(map[string]float64, len(matches))
	for i, m := range matches {
		ids[i] = m.VehicleID
		simByID[m.VehicleID] = m.Similarity
	}

	rows, err := s.listings.FetchByIDs(ctx, ids, filter)
	if err != nil {
		log.Warn("candidate fetch failed", zap.Error(err))
		return nil, false
	}
	dbg.AfterFilters = len(rows)
	if len(rows) == 0 {
		return nil, false
	}

	ranked := make([]Ranked, len(rows))
	for i, l := range rows {
		ranked[i] = Ranked{Listing: l, Similarity: simByID[l.ID]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked, true
}

// keywordTier substring-searches the listing tables, one category at a
// time, returning the first category with any hits. A per-category failure
// is logged and skipped so one bad table does not empty the whole search.
func (s *Service) keywordTier(
	ctx context.Context, log *zap.Logger, q string, category listing.Category,
) ([]Ranked, bool) {
	categories := listing.All()
	if category != "" {
		categories = []listing.Category{category}
	}

	for _, cat := range categories {
		rows, err := s.listings.SearchKeyword(ctx, cat, q, s.cfg.KeywordLimit)
		if err != nil {
			log.Warn("keyword search failed",
				zap.String("category", string(cat)), zap.Error(err))
			continue
		}
		if len(rows) == 0 {
			continue
		}
		ranked := make([]Ranked, len(rows))
		for i, l := range rows {
			ranked[i] = Ranked{Listing: l}
		}
		return ranked, true
	}
	return nil, false
}

// mergeFilter combines filters extracted from the query text with explicit
// request filters. Explicit fields win.
func mergeFilter(parsed query.Filters, req Request) listing.Filter {
	f := listing.Filter{
		Brand:      parsed.Brand,
		Model:      parsed.Model,
		Color:      parsed.Color,
		City:       parsed.Location,
		MaxPrice:   parsed.MaxPrice,
		MaxMileage: parsed.MaxMileage,
	}
	if req.Category != "" {
		f.Category = req.Category
	}
	if req.Filter.Brand != "" {
		f.Brand = req.Filter.Brand
	}
	if req.Filter.Model != "" {
		f.Model = req.Filter.Model
	}
	if req.Filter.Color != "" {
		f.Color = req.Filter.Color
	}
	if req.Filter.City != "" {
		f.City = req.Filter.City
	}
	if req.Filter.MaxPrice > 0 {
		f.MaxPrice = req.Filter.MaxPrice
	}
	if req.Filter.MaxMileage > 0 {
		f.MaxMileage = req.Filter.MaxMileage
	}
	return f
}
