package query

import (
	"net/url"
	"strconv"
)

// Filters is the normalized query-parameter set extracted from a free-text
// search. Produced per request, immutable once built. A zero field means
// "no constraint", never "exclude"; fields are independently optional.
type Filters struct {
	Brand      string
	Model      string
	Color      string
	Location   string
	MaxPrice   int
	MaxMileage int
	Category   string
}

// Params encodes the set fields as a URL query string. Unset fields are
// absent from the output.
func (f Filters) Params() string {
	v := url.Values{}
	if f.Brand != "" {
		v.Set("brand", f.Brand)
	}
	if f.Model != "" {
		v.Set("model", f.Model)
	}
	if f.Color != "" {
		v.Set("color", f.Color)
	}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	if f.MaxPrice > 0 {
		v.Set("maxPrice", strconv.Itoa(f.MaxPrice))
	}
	if f.MaxMileage > 0 {
		v.Set("maxMileage", strconv.Itoa(f.MaxMileage))
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	return v.Encode()
}

// IsZero reports whether no filter field is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}
