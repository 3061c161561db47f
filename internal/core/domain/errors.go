package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors and are matched with
// errors.Is so adapters can map them to their own surfaces.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtraction indicates the uploaded document could not be read.
	// The ingestion is marked failed; nothing is persisted for it.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbedding indicates embedding generation failed. Ingestion
	// degrades to lexical-only chunks rather than failing outright.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore indicates the persistent store is unavailable or rejected
	// an operation. Retryable infrastructure failure.
	ErrStore = errors.New("store unavailable")

	// ErrModelCall indicates the language model call failed (network
	// error, non-success status, malformed response). The single request
	// fails; stored state is not affected.
	ErrModelCall = errors.New("model call failed")

	// ErrModelTimeout indicates the language model call exceeded its
	// configured deadline.
	ErrModelTimeout = errors.New("model call timed out")

	// ErrIngestInProgress indicates an ingestion for the same filename is
	// already running. Replaces of the same document are serialized.
	ErrIngestInProgress = errors.New("ingestion in progress")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answering questions is impossible without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Retrieval degrades to lexical-only search.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrSearchUnavailable indicates the lexical search engine is not
	// configured.
	ErrSearchUnavailable = errors.New("search engine unavailable")
)

// FailureKind is the machine-readable classification of an error, used by
// the API layer to report failures without exposing internals.
type FailureKind string

// Failure kinds reported over the wire.
const (
	FailureExtraction   FailureKind = "extraction_error"
	FailureEmbedding    FailureKind = "embedding_error"
	FailureStore        FailureKind = "store_error"
	FailureModelCall    FailureKind = "model_call_error"
	FailureModelTimeout FailureKind = "model_timeout"
	FailureNotFound     FailureKind = "not_found"
	FailureInvalidInput FailureKind = "invalid_input"
	FailureInternal     FailureKind = "internal_error"
)

// KindOf maps an error to its FailureKind. Unknown errors map to
// FailureInternal.
func KindOf(err error) FailureKind {
	switch {
	case errors.Is(err, ErrExtraction):
		return FailureExtraction
	case errors.Is(err, ErrEmbedding):
		return FailureEmbedding
	case errors.Is(err, ErrStore):
		return FailureStore
	case errors.Is(err, ErrModelTimeout):
		return FailureModelTimeout
	case errors.Is(err, ErrModelCall), errors.Is(err, ErrLLMUnavailable):
		return FailureModelCall
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrInvalidInput):
		return FailureInvalidInput
	default:
		return FailureInternal
	}
}
