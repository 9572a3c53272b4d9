package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Callers classify
// failures with errors.Is; adapters wrap these sentinels with
// fmt.Errorf("...: %w", ...) to add context.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates the uploaded bytes could not be read as a
	// delimited table (empty file, missing header, malformed quoting).
	ErrParse = errors.New("parse failed")

	// ErrStorage indicates the document store rejected or lost data.
	ErrStorage = errors.New("storage failed")

	// ErrEmbedding indicates the embedding service failed.
	// Batch embedding is all-or-nothing: one failed text fails the
	// whole batch and nothing from it is persisted.
	ErrEmbedding = errors.New("embedding failed")

	// ErrScope indicates a query scope resolves to nothing: a named
	// document id does not exist, or no documents have been ingested.
	ErrScope = errors.New("scope empty")

	// ErrModel indicates the language model call failed.
	ErrModel = errors.New("model call failed")

	// ErrTimeout indicates an operation exceeded its deadline.
	// Kept distinct from ErrModel so callers can tell a slow model
	// from a broken one.
	ErrTimeout = errors.New("timed out")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Questions cannot be answered without a completion provider.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
