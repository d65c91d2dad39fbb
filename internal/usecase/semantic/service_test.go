package semantic

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/evvalley/search-api/internal/domain"
	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

type mockMatches struct {
	matchFn func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error)
}

func (m *mockMatches) MatchVehicles(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
	return m.matchFn(ctx, embedding, threshold, limit)
}

type mockListings struct {
	fetchFn   func(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error)
	keywordFn func(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error)
}

func (m *mockListings) FetchByIDs(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error) {
	return m.fetchFn(ctx, ids, f)
}

func (m *mockListings) SearchKeyword(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
	return m.keywordFn(ctx, category, q, limit)
}

func testConfig() Config {
	return Config{SimilarityThreshold: 0.3, MatchLimit: 30, KeywordLimit: 20}
}

func okEmbedder() *mockEmbedder {
	return &mockEmbedder{
		embedFn: func(ctx context.Context, text string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}, PromptTokens: 3}, nil
		},
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	s := New(okEmbedder(), nil, nil, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "   "})
	if len(res.Vehicles) != 0 || res.Semantic || res.Err != "" {
		t.Errorf("blank query should be an empty non-semantic result, got %+v", res)
	}
}

func TestSearch_MissingAPIKey(t *testing.T) {
	s := New(nil, nil, nil, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "tesla"})
	if res.Err != ErrTagMissingKey {
		t.Errorf("Err = %q, want %q", res.Err, ErrTagMissingKey)
	}
	if res.Semantic || len(res.Vehicles) != 0 {
		t.Errorf("missing key must yield empty non-semantic result, got %+v", res)
	}
}

func TestSearch_EmbeddingFailureDoesNotFallBack(t *testing.T) {
	emb := &mockEmbedder{
		embedFn: func(ctx context.Context, text string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, errors.New("provider down")
		},
	}
	listings := &mockListings{
		keywordFn: func(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
			t.Fatal("keyword tier must not run when embedding fails")
			return nil, nil
		},
	}
	s := New(emb, nil, listings, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "tesla"})
	if res.Err != ErrTagEmbeddingFailed {
		t.Errorf("Err = %q, want %q", res.Err, ErrTagEmbeddingFailed)
	}
	if res.Semantic || len(res.Vehicles) != 0 {
		t.Errorf("embedding failure must yield empty result, got %+v", res)
	}
}

func TestSearch_VectorTierSortedBySimilarity(t *testing.T) {
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			if threshold != 0.3 || limit != 30 {
				t.Errorf("threshold/limit = %v/%d, want 0.3/30", threshold, limit)
			}
			return []domain.Match{
				{VehicleID: "a", Similarity: 0.5},
				{VehicleID: "b", Similarity: 0.9},
			}, nil
		},
	}
	listings := &mockListings{
		fetchFn: func(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error) {
			// Repo returns rows in arbitrary order.
			return []listing.Listing{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "tesla model 3"})
	if !res.Semantic {
		t.Fatal("expected semantic result")
	}
	if len(res.Vehicles) != 2 {
		t.Fatalf("len(Vehicles) = %d, want 2", len(res.Vehicles))
	}
	if res.Vehicles[0].Listing.ID != "b" || res.Vehicles[0].Similarity != 0.9 {
		t.Errorf("first result = %s (%v), want b (0.9)",
			res.Vehicles[0].Listing.ID, res.Vehicles[0].Similarity)
	}
	if res.Debug == nil || res.Debug.Tier != TierVector {
		t.Errorf("Debug = %+v, want vector tier", res.Debug)
	}
}

func TestSearch_ParsedFiltersReachRepo(t *testing.T) {
	var gotFilter listing.Filter
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			return []domain.Match{{VehicleID: "a", Similarity: 0.7}}, nil
		},
	}
	listings := &mockListings{
		fetchFn: func(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error) {
			gotFilter = f
			return []listing.Listing{{ID: "a"}}, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	s.Search(context.Background(), Request{Query: "red tesla under 30k in sf"})
	want := listing.Filter{Brand: "tesla", Color: "red", City: "San Francisco", MaxPrice: 30000}
	if gotFilter != want {
		t.Errorf("filter = %+v, want %+v", gotFilter, want)
	}
}

func TestSearch_ExplicitFilterWinsOverParsed(t *testing.T) {
	var gotFilter listing.Filter
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			return []domain.Match{{VehicleID: "a", Similarity: 0.7}}, nil
		},
	}
	listings := &mockListings{
		fetchFn: func(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error) {
			gotFilter = f
			return []listing.Listing{{ID: "a"}}, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	s.Search(context.Background(), Request{
		Query:  "tesla under 30k",
		Filter: listing.Filter{MaxPrice: 25000},
	})
	if gotFilter.MaxPrice != 25000 {
		t.Errorf("MaxPrice = %d, want explicit 25000", gotFilter.MaxPrice)
	}
	if gotFilter.Brand != "tesla" {
		t.Errorf("Brand = %q, want parsed tesla", gotFilter.Brand)
	}
}

func TestSearch_VectorErrorFallsBackToKeyword(t *testing.T) {
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			return nil, errors.New("rpc failed")
		},
	}
	var searched []listing.Category
	listings := &mockListings{
		keywordFn: func(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
			searched = append(searched, category)
			if category == listing.EVScooter {
				return []listing.Listing{{ID: "s1", Category: category}}, nil
			}
			return nil, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "scooter"})
	if res.Semantic {
		t.Error("keyword fallback must not be marked semantic")
	}
	if res.Err != "" {
		t.Errorf("Err = %q, want empty", res.Err)
	}
	if len(res.Vehicles) != 1 || res.Vehicles[0].Listing.ID != "s1" {
		t.Fatalf("Vehicles = %+v, want the scooter hit", res.Vehicles)
	}
	if res.Vehicles[0].Similarity != 0 {
		t.Errorf("keyword result similarity = %v, want 0", res.Vehicles[0].Similarity)
	}
	wantOrder := []listing.Category{listing.EVCar, listing.EVScooter}
	if len(searched) != 2 || searched[0] != wantOrder[0] || searched[1] != wantOrder[1] {
		t.Errorf("categories searched = %v, want %v then stop", searched, wantOrder)
	}
}

func TestSearch_NoMatchesFallsBackToKeyword(t *testing.T) {
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			return nil, nil
		},
	}
	called := false
	listings := &mockListings{
		keywordFn: func(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
			called = true
			return []listing.Listing{{ID: "k1"}}, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "obscure thing"})
	if !called {
		t.Fatal("keyword tier did not run")
	}
	if res.Semantic || len(res.Vehicles) != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestSearch_FiltersRemoveAllCandidates(t *testing.T) {
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			return []domain.Match{{VehicleID: "a", Similarity: 0.8}}, nil
		},
	}
	listings := &mockListings{
		fetchFn: func(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error) {
			return nil, nil
		},
		keywordFn: func(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
			return nil, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	res := s.Search(context.Background(), Request{Query: "white tesla under 1k"})
	if res.Semantic || len(res.Vehicles) != 0 || res.Err != "" {
		t.Errorf("expected empty non-semantic result, got %+v", res)
	}
	if res.Debug.Tier != TierNone {
		t.Errorf("Debug.Tier = %q, want none", res.Debug.Tier)
	}
}

func TestSearch_CategoryRestrictsKeywordTier(t *testing.T) {
	matches := &mockMatches{
		matchFn: func(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
			return nil, nil
		},
	}
	var searched []listing.Category
	listings := &mockListings{
		keywordFn: func(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
			searched = append(searched, category)
			return nil, nil
		},
	}
	s := New(okEmbedder(), matches, listings, testConfig(), zap.NewNop())

	s.Search(context.Background(), Request{Query: "folding bike", Category: listing.EBike})
	if len(searched) != 1 || searched[0] != listing.EBike {
		t.Errorf("categories searched = %v, want only e-bike", searched)
	}
}
