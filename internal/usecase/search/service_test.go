package search

import (
	"net/url"
	"testing"

	"go.uber.org/zap"
)

func TestParse_AlwaysSetsCategory(t *testing.T) {
	s := New(zap.NewNop())

	f := s.Parse("hello world")
	if f.Category != "ev-car" {
		t.Errorf("Category = %q, want %q", f.Category, "ev-car")
	}
	if f.Brand != "" || f.Model != "" || f.MaxPrice != 0 {
		t.Errorf("unexpected extraction from neutral query: %+v", f)
	}
}

func TestParse_FullQuery(t *testing.T) {
	s := New(zap.NewNop())

	f := s.Parse("Tesla Model 3 under 30k in SF")
	v, err := url.ParseQuery(f.Params())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}

	want := map[string]string{
		"brand":    "tesla",
		"model":    "model 3",
		"maxPrice": "30000",
		"location": "San Francisco",
		"category": "ev-car",
	}
	for key, val := range want {
		if got := v.Get(key); got != val {
			t.Errorf("params[%q] = %q, want %q", key, got, val)
		}
	}
}
