package driven

import "context"

// SearchEngine provides full-text search over chunk content.
// Backed by SQLite FTS5 with bm25 ranking. The index rows are maintained
// inside the DocumentStore's transactions so the searchable set can never
// disagree with the stored chunks.
type SearchEngine interface {
	// Search performs a keyword search and returns matching chunk IDs
	// with scores, best first. An empty index yields an empty slice,
	// never an error.
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

// SearchHit represents a search result from the engine.
type SearchHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Score is the relevance score (higher is better).
	Score float64
}
