// Package indexer maintains the vehicle_embeddings vector index: it walks
// the listing tables, builds one search document per listing, embeds it,
// and upserts the result. Unchanged documents are skipped so scheduled
// runs stay cheap.
package indexer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/evvalley/search-api/internal/domain"
	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/repository/searchindex"
)

// ListingSource pages listings for indexing.
type ListingSource interface {
	ListForIndex(ctx context.Context, category listing.Category, afterID string, limit int) ([]listing.Listing, error)
}

// Index is the write side of the vector index.
type Index interface {
	Upsert(ctx context.Context, e searchindex.Entry) error
	Documents(ctx context.Context) (map[string]string, error)
}

// Stats summarizes one indexing run.
type Stats struct {
	Scanned  int
	Embedded int
	Skipped  int
	Failed   int
}

// Indexer runs full reindex passes.
type Indexer struct {
	listings  ListingSource
	index     Index
	embedder  domain.Embedder
	batchSize int
	log       *zap.Logger
}

// New creates an indexer. batchSize bounds each listing page.
func New(listings ListingSource, index Index, embedder domain.Embedder, batchSize int, log *zap.Logger) *Indexer {
	return &Indexer{
		listings:  listings,
		index:     index,
		embedder:  embedder,
		batchSize: batchSize,
		log:       log,
	}
}

// Reindex walks every category and refreshes the index. Individual listing
// failures are counted and logged, not fatal; the run only aborts on
// context cancellation or when the existing documents cannot be loaded.
func (ix *Indexer) Reindex(ctx context.Context) (Stats, error) {
	var stats Stats

	existing, err := ix.index.Documents(ctx)
	if err != nil {
		return stats, fmt.Errorf("load existing documents: %w", err)
	}

	for _, cat := range listing.All() {
		if err := ix.reindexCategory(ctx, cat, existing, &stats); err != nil {
			return stats, err
		}
	}

	ix.log.Info("reindex finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("embedded", stats.Embedded),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (ix *Indexer) reindexCategory(
	ctx context.Context, cat listing.Category, existing map[string]string, stats *Stats,
) error {
	afterID := ""
	for {
		page, err := ix.listings.ListForIndex(ctx, cat, afterID, ix.batchSize)
		if err != nil {
			return fmt.Errorf("page %s after %q: %w", cat, afterID, err)
		}
		if len(page) == 0 {
			return nil
		}

		for _, l := range page {
			if err := ctx.Err(); err != nil {
				return err
			}
			stats.Scanned++

			doc := BuildDocument(l)
			if existing[l.ID] == doc {
				stats.Skipped++
				continue
			}

			emb, err := ix.embedder.Embed(ctx, doc)
			if err != nil {
				stats.Failed++
				ix.log.Warn("embed listing failed",
					zap.String("id", l.ID), zap.Error(err))
				continue
			}

			entry := searchindex.Entry{
				VehicleID:      l.ID,
				Category:       string(l.Category),
				SearchDocument: doc,
				Embedding:      emb.Embedding,
			}
			if err := ix.index.Upsert(ctx, entry); err != nil {
				stats.Failed++
				ix.log.Warn("upsert index entry failed",
					zap.String("id", l.ID), zap.Error(err))
				continue
			}
			stats.Embedded++
		}

		afterID = page[len(page)-1].ID
	}
}

// BuildDocument renders the text that gets embedded for a listing. Field
// order is stable: the document doubles as the change marker for
// skip-unchanged runs.
func BuildDocument(l listing.Listing) string {
	parts := make([]string, 0, 8)

	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	addPtr := func(p *string) {
		if p != nil {
			add(*p)
		}
	}

	add(l.Title)
	add(l.Brand)
	add(l.Model)
	if l.Year > 0 {
		add(strconv.Itoa(l.Year))
	}
	addPtr(l.Color)
	add(l.Location)
	add(string(l.Category))
	if l.Price > 0 {
		add(fmt.Sprintf("$%.0f", l.Price))
	}
	if l.Mileage != nil && *l.Mileage > 0 {
		add(strconv.Itoa(*l.Mileage) + " miles")
	}
	addPtr(l.BodyType)
	addPtr(l.Condition)
	addPtr(l.Description)

	return strings.Join(parts, " | ")
}
