// Package search turns free-text marketplace queries into structured
// search parameters.
package search

import (
	"go.uber.org/zap"

	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/domain/query"
)

// Service parses natural-language queries into filter parameters.
type Service struct {
	log *zap.Logger
}

// New creates a search parameter service.
func New(log *zap.Logger) *Service {
	return &Service{log: log}
}

// Parse extracts structured filters from a free-text query. The category is
// always set to ev-car: this endpoint serves the car search box, and the
// storefront relies on the default being present even when nothing else is
// extracted.
func (s *Service) Parse(q string) query.Filters {
	f := query.Parse(q)
	f.Category = string(listing.EVCar)

	s.log.Debug("parsed search query",
		zap.String("query", q),
		zap.String("params", f.Params()),
	)
	return f
}
