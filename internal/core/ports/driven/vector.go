package driven

import "context"

// VectorIndex provides semantic similarity search over chunk embeddings.
// Backed by an in-memory cosine index rebuilt from the DocumentStore at
// startup; embeddings remain durable in the store itself.
type VectorIndex interface {
	// Add inserts a vector for the given chunk.
	Add(ctx context.Context, chunkID, documentID string, embedding []float32) error

	// DeleteByDocument removes all vectors belonging to a document.
	// Idempotent; removing an unknown document is not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Search finds the k nearest neighbours to the query vector.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
