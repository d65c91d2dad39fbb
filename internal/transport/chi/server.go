// Package chi exposes the search pipeline over HTTP.
package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/evvalley/search-api/internal/domain/listing"
	"github.com/evvalley/search-api/internal/metrics"
	"github.com/evvalley/search-api/internal/usecase/health"
	"github.com/evvalley/search-api/internal/usecase/search"
	"github.com/evvalley/search-api/internal/usecase/semantic"
)

// Server wires the HTTP surface: the two search endpoints plus health and
// metrics.
type Server struct {
	search   *search.Service
	semantic *semantic.Service
	health   *health.Checker
	apiKeys  []string
	log      *zap.Logger
}

// New creates the HTTP server. apiKeys may be empty, leaving the endpoints
// public.
func New(searchSvc *search.Service, semanticSvc *semantic.Service, checker *health.Checker, apiKeys []string, log *zap.Logger) *Server {
	return &Server{
		search:   searchSvc,
		semantic: semanticSvc,
		health:   checker,
		apiKeys:  apiKeys,
		log:      log,
	}
}

// Handler builds the full router. Unmatched methods on known routes answer
// 405 via chi's default.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(jsonRecoverer(s.log))
	r.Use(requestLogger(s.log))
	r.Use(metrics.Middleware())
	r.Use(bearerAuth(s.apiKeys, "/health", "/metrics"))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/api/search", s.handleSearch)
	r.Post("/api/semantic-search", s.handleSemanticSearch)

	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}

	params := s.search.Parse(req.Q)
	writeJSON(w, http.StatusOK, searchResponse{Params: params.Params()})
}

// handleSemanticSearch answers 200 for every pipeline outcome, including
// provider failures; the storefront reads the error tag from the body.
// Only malformed requests get a non-200.
func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	var req semanticRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json"})
		return
	}

	var category listing.Category
	if req.Category != "" {
		parsed, err := listing.ParseCategory(req.Category)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_category"})
			return
		}
		category = parsed
	}

	res := s.semantic.Search(r.Context(), semantic.Request{
		Query:    req.Q,
		Category: category,
		Filter:   req.Filters.toDomain(),
	})

	resp := semanticResponse{
		Vehicles: make([]vehicleJSON, len(res.Vehicles)),
		Semantic: res.Semantic,
		Params:   res.Params.Params(),
		Error:    res.Err,
	}
	for i, v := range res.Vehicles {
		resp.Vehicles[i] = toVehicleJSON(v)
	}
	if req.Debug {
		resp.Debug = res.Debug
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Check(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
