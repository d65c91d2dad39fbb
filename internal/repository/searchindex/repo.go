package searchindex

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/evvalley/search-api/internal/domain"
)

// Repo wraps the vendor-side vector index: the match_vehicles similarity
// function and the vehicle_embeddings table it searches.
type Repo struct {
	db *gorm.DB
}

// New creates a search index repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Entry is one search index row maintained by the indexer.
type Entry struct {
	VehicleID      string
	Category       string
	SearchDocument string
	Embedding      []float32
}

type matchRow struct {
	VehicleID  string  `gorm:"column:vehicle_id"`
	Similarity float64 `gorm:"column:similarity"`
}

// MatchVehicles invokes the vendor similarity function with an embedding, a
// similarity threshold, and a result cap, returning candidate vehicle ids
// with their scores.
func (r *Repo) MatchVehicles(
	ctx context.Context, embedding []float32, threshold float64, limit int,
) ([]domain.Match, error) {
	var rows []matchRow
	err := r.db.WithContext(ctx).
		Raw("SELECT vehicle_id, similarity FROM match_vehicles(?::vector, ?, ?)",
			vectorLiteral(embedding), threshold, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("match_vehicles: %w", err)
	}

	matches := make([]domain.Match, len(rows))
	for i, row := range rows {
		matches[i] = domain.Match{VehicleID: row.VehicleID, Similarity: row.Similarity}
	}
	return matches, nil
}

// Upsert writes one index entry, replacing any previous row for the vehicle.
func (r *Repo) Upsert(ctx context.Context, e Entry) error {
	err := r.db.WithContext(ctx).Exec(`
		INSERT INTO vehicle_embeddings (vehicle_id, category, search_document, embedding, updated_at)
		VALUES (?, ?, ?, ?::vector, now())
		ON CONFLICT (vehicle_id) DO UPDATE SET
			category = excluded.category,
			search_document = excluded.search_document,
			embedding = excluded.embedding,
			updated_at = now()`,
		e.VehicleID, e.Category, e.SearchDocument, vectorLiteral(e.Embedding),
	).Error
	if err != nil {
		return fmt.Errorf("upsert index entry %s: %w", e.VehicleID, err)
	}
	return nil
}

type docRow struct {
	VehicleID      string `gorm:"column:vehicle_id"`
	SearchDocument string `gorm:"column:search_document"`
}

// Documents returns the current search document per indexed vehicle, letting
// the indexer skip rows whose document is unchanged.
func (r *Repo) Documents(ctx context.Context) (map[string]string, error) {
	var rows []docRow
	err := r.db.WithContext(ctx).
		Raw("SELECT vehicle_id, search_document FROM vehicle_embeddings").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load index documents: %w", err)
	}

	docs := make(map[string]string, len(rows))
	for _, row := range rows {
		docs[row.VehicleID] = row.SearchDocument
	}
	return docs, nil
}

// Delete removes a vehicle from the index (listing sold or removed).
func (r *Repo) Delete(ctx context.Context, vehicleID string) error {
	err := r.db.WithContext(ctx).
		Exec("DELETE FROM vehicle_embeddings WHERE vehicle_id = ?", vehicleID).Error
	if err != nil {
		return fmt.Errorf("delete index entry %s: %w", vehicleID, err)
	}
	return nil
}

// vectorLiteral renders an embedding in pgvector input syntax: "[x,y,z]".
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
