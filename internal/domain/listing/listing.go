package listing

import (
	"time"

	"github.com/evvalley/search-api/internal/domain"
)

// Category identifies a marketplace listing collection.
type Category string

// Listing categories. EV cars and hybrids share the vehicles table;
// scooters and bikes have their own.
const (
	EVCar     Category = "ev-car"
	HybridCar Category = "hybrid-car"
	EVScooter Category = "ev-scooter"
	EBike     Category = "e-bike"
)

// All enumerates every category, in fallback-search order.
func All() []Category {
	return []Category{EVCar, EVScooter, EBike}
}

// ParseCategory validates a category string from a request.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case EVCar, HybridCar, EVScooter, EBike:
		return c, nil
	default:
		return "", domain.ErrInvalidCategory
	}
}

// Table returns the database table holding listings of this category.
func (c Category) Table() string {
	switch c {
	case EVScooter:
		return "e_scooters"
	case EBike:
		return "e_bikes"
	default:
		return "vehicles"
	}
}

// Listing is a typed marketplace listing row at the fetch boundary.
// The id, title, and price are always present; detail fields are nullable.
// The search pipeline only reads listings, it never mutates them.
type Listing struct {
	ID       string
	Title    string
	Brand    string
	Model    string
	Year     int
	Price    float64
	Mileage  *int
	Location string
	Category Category
	Sold     bool
	VIN      string

	Color         *string
	Description   *string
	BatteryRange  *int
	ChargingType  *string
	Condition     *string
	InteriorColor *string
	BodyType      *string
	Drivetrain    *string
	SellerType    *string
	Images        []string

	CreatedAt time.Time
}

// Filter is the hard-filter set applied when candidate rows are re-fetched.
// Zero fields mean "no constraint"; City matches as a prefix.
type Filter struct {
	Category   Category
	Brand      string
	Model      string
	Color      string
	City       string
	MaxPrice   int
	MaxMileage int
}

// IsZero reports whether no constraint is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}
