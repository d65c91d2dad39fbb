package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrMissingAPIKey signals that no embedding provider key is configured.
	ErrMissingAPIKey = errors.New("embedding api key not configured")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrInvalidCategory signals an unknown listing category.
	ErrInvalidCategory = errors.New("invalid category")
)
