package chi

import (
	"time"

	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/usecase/semantic"
)

type searchRequest struct {
	Q string `json:"q"`
}

type searchResponse struct {
	Params string `json:"params"`
}

type semanticFilters struct {
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Color      string `json:"color"`
	City       string `json:"city"`
	MaxPrice   int    `json:"maxPrice"`
	MaxMileage int    `json:"maxMileage"`
}

type semanticRequest struct {
	Q        string          `json:"q"`
	Category string          `json:"category"`
	Filters  semanticFilters `json:"filters"`
	Debug    bool            `json:"debug"`
}

type semanticResponse struct {
	Vehicles []vehicleJSON   `json:"vehicles"`
	Semantic bool            `json:"semantic"`
	Params   string          `json:"params,omitempty"`
	Error    string          `json:"error,omitempty"`
	Debug    *semantic.Debug `json:"debug,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// vehicleJSON is the listing wire shape the storefront consumes.
type vehicleJSON struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Brand         string   `json:"brand,omitempty"`
	Model         string   `json:"model,omitempty"`
	Year          int      `json:"year,omitempty"`
	Price         float64  `json:"price"`
	Mileage       *int     `json:"mileage,omitempty"`
	Location      string   `json:"location,omitempty"`
	Category      string   `json:"category"`
	Color         *string  `json:"color,omitempty"`
	Description   *string  `json:"description,omitempty"`
	BatteryRange  *int     `json:"batteryRange,omitempty"`
	ChargingType  *string  `json:"chargingType,omitempty"`
	Condition     *string  `json:"condition,omitempty"`
	InteriorColor *string  `json:"interiorColor,omitempty"`
	BodyType      *string  `json:"bodyType,omitempty"`
	Drivetrain    *string  `json:"drivetrain,omitempty"`
	SellerType    *string  `json:"sellerType,omitempty"`
	Images        []string `json:"images,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
	Similarity    float64  `json:"similarity,omitempty"`
}

func toVehicleJSON(r semantic.Ranked) vehicleJSON {
	l := r.Listing
	out := vehicleJSON{
		ID:            l.ID,
		Title:         l.Title,
		Brand:         l.Brand,
		Model:         l.Model,
		Year:          l.Year,
		Price:         l.Price,
		Mileage:       l.Mileage,
		Location:      l.Location,
		Category:      string(l.Category),
		Color:         l.Color,
		Description:   l.Description,
		BatteryRange:  l.BatteryRange,
		ChargingType:  l.ChargingType,
		Condition:     l.Condition,
		InteriorColor: l.InteriorColor,
		BodyType:      l.BodyType,
		Drivetrain:    l.Drivetrain,
		SellerType:    l.SellerType,
		Images:        l.Images,
		Similarity:    r.Similarity,
	}
	if !l.CreatedAt.IsZero() {
		out.CreatedAt = l.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func (f semanticFilters) toDomain() listing.Filter {
	return listing.Filter{
		Brand:      f.Brand,
		Model:      f.Model,
		Color:      f.Color,
		City:       f.City,
		MaxPrice:   f.MaxPrice,
		MaxMileage: f.MaxMileage,
	}
}
