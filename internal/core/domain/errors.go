package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or metric.
	ErrUnsupportedType = errors.New("unsupported type")

	// Query pipeline errors.

	// ErrIndexUnavailable indicates the vector index has not been
	// initialised or cannot be reached. It is surfaced to callers as a
	// service-unavailable condition and is never retried.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrBackendUnconfigured indicates the generative backend has no
	// credentials. The synthesizer switches to the extractive fallback.
	ErrBackendUnconfigured = errors.New("generative backend not configured")

	// ErrBackendCallFailed indicates a network, auth or response error
	// from the generative backend. It is converted to an error-text answer.
	ErrBackendCallFailed = errors.New("generative backend call failed")

	// ErrNoMatches indicates retrieval returned zero results.
	// Synthesis short-circuits to the fixed no-match answer.
	ErrNoMatches = errors.New("no matching documents")

	// Ingestion errors.

	// ErrMalformedSourceBatch indicates a source batch could not be read
	// or parsed. The batch is skipped and ingestion continues.
	ErrMalformedSourceBatch = errors.New("malformed source batch")

	// ErrEmbeddingMismatch indicates the configured embedding function
	// differs from the one the collection was built with, so distances
	// would not be comparable.
	ErrEmbeddingMismatch = errors.New("embedding function mismatch")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
