package query

import (
	"sort"
	"strings"
)

// Alias tables map informal tokens (abbreviations, misspellings, Turkish
// color names) to one canonical string per category. Built once at package
// init and never mutated.

var brandAliases = map[string]string{
	"tesla":         "tesla",
	"volkswagen":    "volkswagen",
	"vw":            "volkswagen",
	"chevrolet":     "chevrolet",
	"chevy":         "chevrolet",
	"mercedes-benz": "mercedes-benz",
	"mercedes":      "mercedes-benz",
	"bmw":           "bmw",
	"nissan":        "nissan",
	"ford":          "ford",
	"hyundai":       "hyundai",
	"kia":           "kia",
	"audi":          "audi",
	"porsche":       "porsche",
	"rivian":        "rivian",
	"lucid":         "lucid",
	"toyota":        "toyota",
	"polestar":      "polestar",
	"niu":           "niu",
	"segway":        "segway",
	"xiaomi":        "xiaomi",
	"rad power":     "rad power",
	"aventon":       "aventon",
	"lectric":       "lectric",
}

// modelAliases keys are matched longest-first so a more specific alias wins
// ("model y performance" resolves through its own key, not through "model y").
var modelAliases = map[string]string{
	"model 3":             "model 3",
	"model3":              "model 3",
	"model y performance": "model y",
	"model y":             "model y",
	"model x":             "model x",
	"model s":             "model s",
	"cybertruck":          "cybertruck",
	"mustang mach-e":      "mustang mach-e",
	"mach-e":              "mustang mach-e",
	"mach e":              "mustang mach-e",
	"id.4":                "id.4",
	"id4":                 "id.4",
	"bolt euv":            "bolt euv",
	"bolt":                "bolt ev",
	"leaf":                "leaf",
	"ariya":               "ariya",
	"ioniq 5":             "ioniq 5",
	"ioniq5":              "ioniq 5",
	"ioniq 6":             "ioniq 6",
	"ev6":                 "ev6",
	"ev9":                 "ev9",
	"niro":                "niro",
	"e-tron":              "e-tron",
	"etron":               "e-tron",
	"taycan":              "taycan",
	"prius prime":         "prius prime",
	"rav4 prime":          "rav4 prime",
	"f-150 lightning":     "f-150 lightning",
	"lightning":           "f-150 lightning",
	"r1t":                 "r1t",
	"r1s":                 "r1s",
	"air":                 "air",
}

var colorAliases = map[string]string{
	"black":   "black",
	"white":   "white",
	"red":     "red",
	"blue":    "blue",
	"green":   "green",
	"gray":    "gray",
	"grey":    "gray",
	"silver":  "silver",
	"orange":  "orange",
	"yellow":  "yellow",
	"brown":   "brown",
	"siyah":   "black",
	"beyaz":   "white",
	"kirmizi": "red",
	"kırmızı": "red",
	"mavi":    "blue",
	"yesil":   "green",
	"yeşil":   "green",
	"gri":     "gray",
	"gumus":   "silver",
	"gümüş":   "silver",
	"turuncu": "orange",
	"sari":    "yellow",
	"sarı":    "yellow",
}

var cityAliases = map[string]string{
	"san francisco": "san francisco",
	"sf":            "san francisco",
	"los angeles":   "los angeles",
	"san diego":     "san diego",
	"san jose":      "san jose",
	"sacramento":    "sacramento",
	"oakland":       "oakland",
	"fresno":        "fresno",
	"new york":      "new york",
	"nyc":           "new york",
	"brooklyn":      "brooklyn",
	"chicago":       "chicago",
	"houston":       "houston",
	"austin":        "austin",
	"dallas":        "dallas",
	"seattle":       "seattle",
	"miami":         "miami",
	"las vegas":     "las vegas",
	"vegas":         "las vegas",
	"phoenix":       "phoenix",
	"denver":        "denver",
	"portland":      "portland",
	"atlanta":       "atlanta",
	"boston":        "boston",
}

// Alias keys sorted longest-first. Map iteration order is random, so matching
// against an unsorted map would make substring ties nondeterministic.
var (
	brandKeys = sortedKeys(brandAliases)
	modelKeys = sortedKeys(modelAliases)
	colorKeys = sortedKeys(colorAliases)
	cityKeys  = sortedKeys(cityAliases)
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// match scans text for the first alias key (longest-first) contained in it.
func match(text string, keys []string, aliases map[string]string) (string, bool) {
	for _, k := range keys {
		if strings.Contains(text, k) {
			return aliases[k], true
		}
	}
	return "", false
}

// ExtractBrand returns the canonical brand named anywhere in text.
func ExtractBrand(text string) (string, bool) {
	return match(strings.ToLower(text), brandKeys, brandAliases)
}

// ExtractModel returns the canonical model named anywhere in text.
// The longest matching alias key wins, so a trim-specific alias takes
// precedence over its base model.
func ExtractModel(text string) (string, bool) {
	return match(strings.ToLower(text), modelKeys, modelAliases)
}

// ExtractColor returns the canonical color named anywhere in text.
// English and Turkish color names are recognized.
func ExtractColor(text string) (string, bool) {
	return match(strings.ToLower(text), colorKeys, colorAliases)
}

// ExtractCity returns the canonical city named anywhere in text.
func ExtractCity(text string) (string, bool) {
	return match(strings.ToLower(text), cityKeys, cityAliases)
}

// NormalizeBrand maps an informal brand token to its canonical form.
// Unknown input is returned unchanged; absence of a match is not a failure.
func NormalizeBrand(s string) string {
	if b, ok := ExtractBrand(s); ok {
		return b
	}
	return s
}

// NormalizeColor maps an informal color token to its canonical form,
// passing unknown input through unchanged.
func NormalizeColor(s string) string {
	if c, ok := ExtractColor(s); ok {
		return c
	}
	return s
}

// NormalizeCity maps an informal city token to its canonical form,
// passing unknown input through unchanged.
func NormalizeCity(s string) string {
	if c, ok := ExtractCity(s); ok {
		return c
	}
	return s
}

// NormalizeModel maps an informal model token to its canonical form.
// Unlike the other normalizers it returns empty when nothing matches.
func NormalizeModel(s string) string {
	if m, ok := ExtractModel(s); ok {
		return m
	}
	return ""
}
