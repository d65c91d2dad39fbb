package listing

import (
	"time"

	domlisting "github.com/evvalley/search-api/internal/domain/listing"
)

// row is the scan target for listing tables. The three category tables share
// this column set; columns absent from a table simply stay zero.
type row struct {
	ID       string  `gorm:"column:id;primaryKey"`
	Title    string  `gorm:"column:title"`
	Brand    string  `gorm:"column:brand"`
	Model    string  `gorm:"column:model"`
	Year     int     `gorm:"column:year"`
	Price    float64 `gorm:"column:price"`
	Mileage  *int    `gorm:"column:mileage"`
	Location string  `gorm:"column:location"`
	Category string  `gorm:"column:category"`
	Sold     bool    `gorm:"column:sold"`
	VIN      string  `gorm:"column:vin"`

	Color         *string  `gorm:"column:color"`
	Description   *string  `gorm:"column:description"`
	BatteryRange  *int     `gorm:"column:battery_range"`
	ChargingType  *string  `gorm:"column:charging_type"`
	Condition     *string  `gorm:"column:condition"`
	InteriorColor *string  `gorm:"column:interior_color"`
	BodyType      *string  `gorm:"column:body_type"`
	Drivetrain    *string  `gorm:"column:drivetrain"`
	SellerType    *string  `gorm:"column:seller_type"`
	Images        []string `gorm:"column:images;serializer:json"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

// toDomain converts a row to the typed domain listing. fallback supplies the
// category for tables without a category column.
func (r row) toDomain(fallback domlisting.Category) domlisting.Listing {
	cat := domlisting.Category(r.Category)
	if r.Category == "" {
		cat = fallback
	}
	return domlisting.Listing{
		ID:            r.ID,
		Title:         r.Title,
		Brand:         r.Brand,
		Model:         r.Model,
		Year:          r.Year,
		Price:         r.Price,
		Mileage:       r.Mileage,
		Location:      r.Location,
		Category:      cat,
		Sold:          r.Sold,
		VIN:           r.VIN,
		Color:         r.Color,
		Description:   r.Description,
		BatteryRange:  r.BatteryRange,
		ChargingType:  r.ChargingType,
		Condition:     r.Condition,
		InteriorColor: r.InteriorColor,
		BodyType:      r.BodyType,
		Drivetrain:    r.Drivetrain,
		SellerType:    r.SellerType,
		Images:        r.Images,
		CreatedAt:     r.CreatedAt,
	}
}

func toDomainAll(rows []row, fallback domlisting.Category) []domlisting.Listing {
	out := make([]domlisting.Listing, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain(fallback)
	}
	return out
}
