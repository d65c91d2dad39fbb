package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/evvalley/search-api/internal/domain"
	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/metrics"
	"github.com/evvalley/search-api/internal/usecase/health"
	"github.com/evvalley/search-api/internal/usecase/search"
	"github.com/evvalley/search-api/internal/usecase/semantic"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
}

type stubMatches struct {
	matches []domain.Match
}

func (s *stubMatches) MatchVehicles(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.Match, error) {
	return s.matches, nil
}

type stubListings struct {
	byID    []listing.Listing
	keyword []listing.Listing
}

func (s *stubListings) FetchByIDs(ctx context.Context, ids []string, f listing.Filter) ([]listing.Listing, error) {
	return s.byID, nil
}

func (s *stubListings) SearchKeyword(ctx context.Context, category listing.Category, q string, limit int) ([]listing.Listing, error) {
	return s.keyword, nil
}

func newTestServer(embedder domain.Embedder, matches semantic.MatchRepo, listings semantic.ListingRepo, apiKeys []string) *Server {
	log := zap.NewNop()
	cfg := semantic.Config{SimilarityThreshold: 0.3, MatchLimit: 30, KeywordLimit: 20}
	checker := health.NewChecker(time.Second)
	checker.Add("database", health.PingFunc(func(ctx context.Context) error { return nil }))
	return New(search.New(log), semantic.New(embedder, matches, listings, cfg, log), checker, apiKeys, log)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSearch_ReturnsParams(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil).Handler()

	rec := postJSON(t, h, "/api/search", `{"q": "Tesla Model 3 under 30k in SF"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, err := url.ParseQuery(resp.Params)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if v.Get("brand") != "tesla" || v.Get("category") != "ev-car" {
		t.Errorf("params = %q", resp.Params)
	}
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestSearch_InvalidJSON(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil).Handler()

	rec := postJSON(t, h, "/api/search", `{"q": `)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSemanticSearch_MissingKeyStill200(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil).Handler()

	rec := postJSON(t, h, "/api/semantic-search", `{"q": "tesla"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp semanticResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "missing_openai_key" {
		t.Errorf("error = %q, want missing_openai_key", resp.Error)
	}
	if resp.Vehicles == nil || len(resp.Vehicles) != 0 {
		t.Errorf("vehicles = %v, want empty array", resp.Vehicles)
	}
}

func TestSemanticSearch_VectorResults(t *testing.T) {
	matches := &stubMatches{matches: []domain.Match{{VehicleID: "a", Similarity: 0.8}}}
	listings := &stubListings{byID: []listing.Listing{{
		ID: "a", Title: "Tesla Model 3", Category: listing.EVCar, Price: 28000,
	}}}
	h := newTestServer(stubEmbedder{}, matches, listings, nil).Handler()

	rec := postJSON(t, h, "/api/semantic-search", `{"q": "tesla model 3", "debug": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp semanticResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Semantic {
		t.Error("semantic = false, want true")
	}
	if len(resp.Vehicles) != 1 || resp.Vehicles[0].ID != "a" {
		t.Fatalf("vehicles = %+v", resp.Vehicles)
	}
	if resp.Vehicles[0].Similarity != 0.8 {
		t.Errorf("similarity = %v, want 0.8", resp.Vehicles[0].Similarity)
	}
	if resp.Debug == nil || resp.Debug.Tier != "vector" {
		t.Errorf("debug = %+v, want vector tier", resp.Debug)
	}
}

func TestSemanticSearch_DebugOmittedByDefault(t *testing.T) {
	matches := &stubMatches{matches: []domain.Match{{VehicleID: "a", Similarity: 0.8}}}
	listings := &stubListings{byID: []listing.Listing{{ID: "a", Title: "Tesla"}}}
	h := newTestServer(stubEmbedder{}, matches, listings, nil).Handler()

	rec := postJSON(t, h, "/api/semantic-search", `{"q": "tesla"}`)
	if strings.Contains(rec.Body.String(), `"debug"`) {
		t.Errorf("debug present without request flag: %s", rec.Body.String())
	}
}

func TestSemanticSearch_InvalidCategory(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil).Handler()

	rec := postJSON(t, h, "/api/semantic-search", `{"q": "x", "category": "boat"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(nil, nil, nil, nil).Handler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var report health.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != health.StatusOK {
		t.Errorf("status = %q, want ok", report.Status)
	}
}

func TestAuth_RequiredWhenConfigured(t *testing.T) {
	h := newTestServer(nil, nil, nil, []string{"secret"}).Handler()

	rec := postJSON(t, h, "/api/search", `{"q": "tesla"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"q": "tesla"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Errorf("status with token = %d, want 200", rec2.Code)
	}

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec3 := httptest.NewRecorder()
	h.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec3.Code)
	}
}
