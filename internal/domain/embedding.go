package domain

import "context"

// EmbeddingResult holds a computed embedding and its token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by embedders that can probe provider
// availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Match is a similarity-search candidate: a vehicle id paired with its
// cosine similarity score from the vector index.
type Match struct {
	VehicleID  string
	Similarity float64
}
