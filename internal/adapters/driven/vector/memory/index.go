// Package memory provides a brute-force in-memory vector index.
// Embeddings stay durable in the document store; the index is rebuilt from
// it at startup, so losing the process never loses vectors.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	chunkID    string
	documentID string
	vector     []float32
	norm       float64
}

// Index is an in-memory cosine similarity index. Exact nearest-neighbour
// scan; fine for the corpus sizes a single chat workspace holds.
type Index struct {
	mu      sync.RWMutex
	entries []entry
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Load warms the index from every embedded chunk in the store.
func (idx *Index) Load(ctx context.Context, store driven.DocumentStore) error {
	chunks, err := store.ListEmbeddedChunks(ctx)
	if err != nil {
		return fmt.Errorf("list embedded chunks: %w", err)
	}

	for i := range chunks {
		if err := idx.Add(ctx, chunks[i].ID, chunks[i].DocumentID, chunks[i].Embedding); err != nil {
			return err
		}
	}

	logger.Debug("Vector index warmed with %d vectors", len(chunks))
	return nil
}

// Add inserts a vector for the given chunk, replacing any previous vector
// under the same chunk ID.
func (idx *Index) Add(_ context.Context, chunkID, documentID string, embedding []float32) error {
	if len(embedding) == 0 {
		return fmt.Errorf("empty embedding for chunk %s", chunkID)
	}

	vector := make([]float32, len(embedding))
	copy(vector, embedding)

	e := entry{
		chunkID:    chunkID,
		documentID: documentID,
		vector:     vector,
		norm:       norm(vector),
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i := range idx.entries {
		if idx.entries[i].chunkID == chunkID {
			idx.entries[i] = e
			return nil
		}
	}
	idx.entries = append(idx.entries, e)
	return nil
}

// DeleteByDocument removes all vectors belonging to a document.
func (idx *Index) DeleteByDocument(_ context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	kept := idx.entries[:0]
	for _, e := range idx.entries {
		if e.documentID != documentID {
			kept = append(kept, e)
		}
	}
	idx.entries = kept
	return nil
}

// Search returns the k entries most similar to the query vector, best
// first. Entries with a different dimensionality are skipped.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if len(query) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return []driven.VectorHit{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for _, e := range idx.entries {
		if len(e.vector) != len(query) || e.norm == 0 {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ChunkID:    e.chunkID,
			Similarity: dot(query, e.vector) / (queryNorm * e.norm),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Size returns the number of indexed vectors.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
	return nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
