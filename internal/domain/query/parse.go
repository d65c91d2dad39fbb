package query

import (
	"strings"
	"unicode"
)

// Parse extracts structured listing filters from a free-text search query.
// Extraction order: brand, model, color, location, numeric bounds. Each
// extractor scans independently; there is no backtracking and no mutual
// exclusion between fields (a query can name both a brand and a color).
// Parse always returns a usable Filters value; a query with no recognizable
// signal yields the zero value.
func Parse(q string) Filters {
	var f Filters

	s := strings.ToLower(strings.TrimSpace(q))
	if s == "" {
		return f
	}

	if b, ok := ExtractBrand(s); ok {
		f.Brand = b
	}
	if m, ok := ExtractModel(s); ok {
		f.Model = m
	}
	if c, ok := ExtractColor(s); ok {
		f.Color = c
	}
	if loc, ok := extractLocation(s); ok {
		f.Location = loc
	}
	if p, ok := ExtractMaxPrice(s); ok {
		f.MaxPrice = p
	}
	if mi, ok := ExtractMaxMileage(s); ok {
		f.MaxMileage = mi
	}

	return f
}

// extractLocation checks the known-city alias table first. When nothing
// matches and the query contains a comma, the text preceding the first comma
// is taken as a heuristic city name. The result is Title-Cased either way.
func extractLocation(s string) (string, bool) {
	if city, ok := ExtractCity(s); ok {
		return titleCase(city), true
	}
	if before, _, found := strings.Cut(s, ","); found {
		before = strings.TrimSpace(before)
		if before != "" {
			return titleCase(before), true
		}
	}
	return "", false
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
