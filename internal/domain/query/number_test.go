package query

import "testing"

func TestParseAmount_EquivalentRepresentations(t *testing.T) {
	// All representations of thirty thousand normalize to the same integer.
	inputs := []string{"30k", "30,000", "30 bin", "$30,000", "30000", "30K"}
	for _, in := range inputs {
		got, ok := ParseAmount(in)
		if !ok || got != 30000 {
			t.Errorf("ParseAmount(%q) = %d, %v; want 30000, true", in, got, ok)
		}
	}
}

func TestParseAmount_Malformed(t *testing.T) {
	for _, in := range []string{"", "k", "bin", "$", "abc", "-5", "0"} {
		if got, ok := ParseAmount(in); ok {
			t.Errorf("ParseAmount(%q) = %d, want no value", in, got)
		}
	}
}

func TestExtractMaxPrice(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"tesla under $30,000", 30000},
		{"tesla under 30k", 30000},
		{"model y below 45000", 45000},
		{"30 bin dolar altında tesla", 30000},
		{"en fazla 25 bin", 25000},
		{"ev for $18,500", 18500},
		{"less than 20k please", 20000},
	}
	for _, tc := range tests {
		got, ok := ExtractMaxPrice(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractMaxPrice(%q) = %d, %v; want %d", tc.in, got, ok, tc.want)
		}
	}
}

func TestExtractMaxPrice_NoBound(t *testing.T) {
	for _, in := range []string{"hello world", "tesla model 3", "under the bridge"} {
		if got, ok := ExtractMaxPrice(in); ok {
			t.Errorf("ExtractMaxPrice(%q) = %d, want no value", in, got)
		}
	}
}

func TestExtractMaxPrice_IgnoresMileagePhrases(t *testing.T) {
	// "under 20k miles" is a mileage bound, not a price bound.
	if got, ok := ExtractMaxPrice("tesla under 20k miles"); ok {
		t.Errorf("mileage phrase misread as price bound: %d", got)
	}
}

func TestExtractMaxMileage(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"below 20k miles", 20000},
		{"under 50,000 miles", 50000},
		{"20 bin km altında", 20000},
		{"max 12000 mi", 12000},
	}
	for _, tc := range tests {
		got, ok := ExtractMaxMileage(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ExtractMaxMileage(%q) = %d, %v; want %d", tc.in, got, ok, tc.want)
		}
	}
}

func TestExtractBothBounds(t *testing.T) {
	in := "tesla under $30,000 with below 20k miles"
	price, ok := ExtractMaxPrice(in)
	if !ok || price != 30000 {
		t.Errorf("price = %d, %v; want 30000", price, ok)
	}
	miles, ok := ExtractMaxMileage(in)
	if !ok || miles != 20000 {
		t.Errorf("mileage = %d, %v; want 20000", miles, ok)
	}
}
