package domain

// DefaultTopK is the number of chunks retrieved when the caller does not
// specify one.
const DefaultTopK = 5

// MaxTopK bounds retrieval so the downstream prompt stays within the
// language model's context budget. Requests above the bound are truncated,
// never rejected.
const MaxTopK = 8

// ClampTopK normalises a requested result count into [1, MaxTopK].
func ClampTopK(k int) int {
	if k <= 0 {
		return DefaultTopK
	}
	if k > MaxTopK {
		return MaxTopK
	}
	return k
}

// SearchResult is a retrieved chunk with its relevance score.
type SearchResult struct {
	// Chunk is the retrieved chunk, carrying Source and Page for citation.
	Chunk Chunk

	// Score is the relevance score. Comparable only within one result set;
	// lexical, semantic and fused scores use different scales.
	Score float64
}
