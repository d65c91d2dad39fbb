package query

import "testing"

func TestNormalizeBrand_Idempotent(t *testing.T) {
	canonical := []string{"volkswagen", "tesla", "chevrolet", "mercedes-benz", "bmw"}
	for _, b := range canonical {
		if got := NormalizeBrand(b); got != b {
			t.Errorf("NormalizeBrand(%q) = %q, want unchanged", b, got)
		}
	}
}

func TestNormalizeBrand_PassThrough(t *testing.T) {
	if got := NormalizeBrand("zamboni"); got != "zamboni" {
		t.Errorf("unknown brand should pass through, got %q", got)
	}
}

func TestExtractBrand_SurroundingText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"I want a VW car", "volkswagen"},
		{"looking for a CHEVY under 20k", "chevrolet"},
		{"mercedes in good condition", "mercedes-benz"},
		{"tesla model 3", "tesla"},
	}
	for _, tc := range tests {
		got, ok := ExtractBrand(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractBrand(%q) = %q, %v; want %q, true", tc.in, got, ok, tc.want)
		}
	}
}

func TestExtractBrand_NoMatch(t *testing.T) {
	if got, ok := ExtractBrand("hello world"); ok {
		t.Errorf("expected no brand in %q, got %q", "hello world", got)
	}
}

func TestExtractModel_LongestKeyWins(t *testing.T) {
	// "model y performance" contains both the "model y" and the
	// "model y performance" alias keys; the longer key must win and it maps
	// back to the base model.
	got, ok := ExtractModel("used model y performance with low miles")
	if !ok || got != "model y" {
		t.Errorf("ExtractModel = %q, %v; want \"model y\", true", got, ok)
	}
}

func TestExtractModel_NoMatch(t *testing.T) {
	if got, ok := ExtractModel("some random bicycle"); ok {
		t.Errorf("expected no model, got %q", got)
	}
	if got := NormalizeModel("some random bicycle"); got != "" {
		t.Errorf("NormalizeModel should return empty on no match, got %q", got)
	}
}

func TestExtractColor_Turkish(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"siyah tesla", "black"},
		{"beyaz model y", "white"},
		{"kirmizi araba", "red"},
		{"grey sedan", "gray"},
		{"GRAY sedan", "gray"},
	}
	for _, tc := range tests {
		got, ok := ExtractColor(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractColor(%q) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}
}

func TestExtractCity_Abbreviations(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tesla in SF", "san francisco"},
		{"anything in nyc today", "new york"},
		{"ebike in vegas", "las vegas"},
		{"scooter san jose", "san jose"},
	}
	for _, tc := range tests {
		got, ok := ExtractCity(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractCity(%q) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}
}

func TestNormalizeCity_PassThrough(t *testing.T) {
	if got := NormalizeCity("springfield"); got != "springfield" {
		t.Errorf("unknown city should pass through, got %q", got)
	}
}
