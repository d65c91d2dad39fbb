package listing

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domlisting "github.com/evvalley/search-api/internal/domain/listing"
)

// Repo reads listing rows from the hosted Postgres. The search pipeline is
// read-only; nothing here mutates listings.
type Repo struct {
	db *gorm.DB
}

// New creates a listing repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// FetchByIDs re-fetches full listing rows for similarity-search candidates,
// applying the hard filters server-side. The vector search only narrows
// candidates; exact constraints are enforced here. Sold listings are
// excluded. Candidates live in the vehicles table — the vector index covers
// cars and hybrids.
func (r *Repo) FetchByIDs(
	ctx context.Context, ids []string, f domlisting.Filter,
) ([]domlisting.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	tx := r.db.WithContext(ctx).
		Table(domlisting.EVCar.Table()).
		Where("id IN ?", ids).
		Where("sold = ?", false)
	tx = applyFilter(tx, f)

	var rows []row
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	return toDomainAll(rows, domlisting.EVCar), nil
}

// SearchKeyword runs a substring search against one category's listing table.
// Used by the semantic-search fallback tier and exercised per category.
func (r *Repo) SearchKeyword(
	ctx context.Context, category domlisting.Category, q string, limit int,
) ([]domlisting.Listing, error) {
	pattern := "%" + q + "%"

	tx := r.db.WithContext(ctx).
		Table(category.Table()).
		Where("sold = ?", false).
		Where("title ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR description ILIKE ?",
			pattern, pattern, pattern, pattern).
		Order("created_at DESC").
		Limit(limit)

	var rows []row
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("keyword search %s: %w", category, err)
	}
	return toDomainAll(rows, category), nil
}

// ListForIndex pages unsold listings for the embedding indexer, keyset style.
// Pass an empty afterID to start from the beginning.
func (r *Repo) ListForIndex(
	ctx context.Context, category domlisting.Category, afterID string, limit int,
) ([]domlisting.Listing, error) {
	tx := r.db.WithContext(ctx).
		Table(category.Table()).
		Where("sold = ?", false).
		Order("id").
		Limit(limit)
	if afterID != "" {
		tx = tx.Where("id > ?", afterID)
	}

	var rows []row
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list for index %s: %w", category, err)
	}
	return toDomainAll(rows, category), nil
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// applyFilter adds the hard-filter clauses. Zero fields add no constraint;
// City matches as a prefix.
func applyFilter(tx *gorm.DB, f domlisting.Filter) *gorm.DB {
	if f.Category != "" {
		tx = tx.Where("category = ?", string(f.Category))
	}
	if f.Brand != "" {
		tx = tx.Where("brand ILIKE ?", f.Brand)
	}
	if f.Model != "" {
		tx = tx.Where("model ILIKE ?", f.Model)
	}
	if f.Color != "" {
		tx = tx.Where("color ILIKE ?", f.Color)
	}
	if f.City != "" {
		tx = tx.Where("location ILIKE ?", f.City+"%")
	}
	if f.MaxPrice > 0 {
		tx = tx.Where("price <= ?", f.MaxPrice)
	}
	if f.MaxMileage > 0 {
		tx = tx.Where("mileage <= ?", f.MaxMileage)
	}
	return tx
}
