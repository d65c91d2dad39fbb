package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Numeric bound extraction: locate an English or Turkish phrase indicating an
// upper bound on price or mileage and return it as an integer. Patterns are
// tried in order, first match wins. A malformed numeric token is treated as
// "no constraint", never as an error.

// amount is a number with an optional thousand suffix: "30000", "30,000",
// "30k", "30 bin" ("bin" is Turkish for thousand).
const amount = `([\d][\d.,]*\s*(?:k\b|bin)?)`

var maxPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:under|below|less than|at most|max(?:imum)?|up to)\s*\$?\s*` + amount),
	regexp.MustCompile(amount + `\s*(?:dolar[ıi]?n?\s*)?alt[ıi]nda`), // "30 bin dolar altında"
	regexp.MustCompile(`en fazla\s*\$?\s*` + amount),
	regexp.MustCompile(`\$\s*` + amount),
}

var maxMileagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:under|below|less than|at most|max(?:imum)?|up to)\s*` + amount + `\s*(?:miles?|mi\b|km)`),
	regexp.MustCompile(amount + `\s*(?:miles?|mi\b|km)\s*alt[ıi]nda`), // "20 bin km altında"
	regexp.MustCompile(amount + `\s*(?:miles?|mi\b|km)\s*(?:or less|max)`),
}

// ParseAmount converts a free-text magnitude token into an integer.
// Currency symbols, commas, and whitespace are stripped; a trailing "k" or
// "bin" multiplies by 1000. Returns false when nothing numeric remains.
func ParseAmount(raw string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "").Replace(s)

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "bin"):
		mult = 1000
		s = strings.TrimSuffix(s, "bin")
	case strings.HasSuffix(s, "k"):
		mult = 1000
		s = strings.TrimSuffix(s, "k")
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return int(n * mult), true
}

// ExtractMaxPrice returns the price upper bound named in text, if any.
// A match immediately followed by a distance unit belongs to the mileage
// extractor and is skipped.
func ExtractMaxPrice(text string) (int, bool) {
	s := strings.ToLower(text)
	for _, re := range maxPricePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
			if m[2] < 0 {
				continue
			}
			if distanceUnitFollows(s[m[3]:]) {
				continue
			}
			if n, ok := ParseAmount(s[m[2]:m[3]]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// ExtractMaxMileage returns the mileage upper bound named in text, if any.
func ExtractMaxMileage(text string) (int, bool) {
	s := strings.ToLower(text)
	for _, re := range maxMileagePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(s, -1) {
			if m[2] < 0 {
				continue
			}
			if n, ok := ParseAmount(s[m[2]:m[3]]); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// distanceUnitFollows reports whether rest starts with a mileage unit.
// Go regexps have no lookahead, so the unit check happens after the match.
func distanceUnitFollows(rest string) bool {
	rest = strings.TrimLeft(rest, " \t.,")
	switch {
	case strings.HasPrefix(rest, "mile"):
		return true
	case rest == "mi" || strings.HasPrefix(rest, "mi "):
		return true
	case strings.HasPrefix(rest, "km"):
		return true
	}
	return false
}
