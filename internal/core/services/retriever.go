package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.RetrievalService = (*RetrieverService)(nil)

// rrfK is the Reciprocal Rank Fusion constant. Keeps a single top rank
// from dominating the fused ordering.
const rrfK = 60

// embedQueryTimeout bounds how long a single query embedding may take
// before retrieval degrades to lexical ranking.
const embedQueryTimeout = 10 * time.Second

// scoredChunk holds intermediate retrieval results before hydration.
type scoredChunk struct {
	chunkID string
	score   float64
}

// RetrieverService selects the chunks most relevant to a question.
// Lexical ranking always runs; semantic ranking joins in when an embedding
// service is configured, and the two lists are blended with RRF.
type RetrieverService struct {
	docStore         driven.DocumentStore
	searchEngine     driven.SearchEngine
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	semantic         bool
}

// NewRetrieverService creates a new retriever.
// The vectorIndex and embeddingService parameters are optional (can be nil).
func NewRetrieverService(
	docStore driven.DocumentStore,
	searchEngine driven.SearchEngine,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	semantic bool,
) *RetrieverService {
	return &RetrieverService{
		docStore:         docStore,
		searchEngine:     searchEngine,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		semantic:         semantic,
	}
}

// Retrieve returns the topK chunks most relevant to the question.
// An empty knowledge base or an unmatched question yields an empty slice,
// never an error.
func (s *RetrieverService) Retrieve(
	ctx context.Context, question string, topK int,
) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")

	question = strings.TrimSpace(question)
	if question == "" {
		return []domain.SearchResult{}, nil
	}

	k := domain.ClampTopK(topK)
	logger.Debug("Question: %q, topK: %d", question, k)

	// Request more candidates than needed so deduplication and deleted
	// chunks don't leave the final set short.
	internalLimit := k * 3

	var chunks []scoredChunk
	var err error

	if s.canDoSemantic() {
		logger.Debug("Executing hybrid retrieval (lexical + semantic)")
		chunks, err = s.hybridSearch(ctx, question, internalLimit)
	} else {
		logger.Debug("Executing lexical retrieval")
		chunks, err = s.lexicalSearch(ctx, question, internalLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	logger.Debug("Raw candidates: %d chunks", len(chunks))

	results, err := s.hydrate(ctx, chunks, k)
	if err != nil {
		return nil, fmt.Errorf("hydrate results: %w", err)
	}

	logger.Info("Retrieved %d chunks", len(results))
	return results, nil
}

// canDoSemantic reports whether semantic ranking is configured and wired.
func (s *RetrieverService) canDoSemantic() bool {
	return s.semantic && s.vectorIndex != nil && s.embeddingService != nil
}

// lexicalSearch performs full-text search over the chunk store.
func (s *RetrieverService) lexicalSearch(ctx context.Context, question string, limit int) ([]scoredChunk, error) {
	if s.searchEngine == nil {
		return nil, domain.ErrSearchUnavailable
	}

	hits, err := s.searchEngine.Search(ctx, question, limit)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	logger.Debug("Lexical search: %d hits", len(hits))

	results := make([]scoredChunk, len(hits))
	for i, hit := range hits {
		results[i] = scoredChunk{chunkID: hit.ChunkID, score: hit.Score}
	}
	return results, nil
}

// semanticSearch embeds the question and queries the vector index.
func (s *RetrieverService) semanticSearch(ctx context.Context, question string, limit int) ([]scoredChunk, error) {
	embedCtx, cancel := context.WithTimeout(ctx, embedQueryTimeout)
	defer cancel()

	embedding, err := s.embeddingService.Embed(embedCtx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Debug("Semantic search: %d hits", len(hits))

	results := make([]scoredChunk, len(hits))
	for i, hit := range hits {
		results[i] = scoredChunk{chunkID: hit.ChunkID, score: hit.Similarity}
	}
	return results, nil
}

// hybridSearch runs lexical and semantic retrieval in parallel and fuses
// the two rankings. A failure on one side degrades to the other; only a
// double failure is an error.
func (s *RetrieverService) hybridSearch(ctx context.Context, question string, limit int) ([]scoredChunk, error) {
	var lexResults, semResults []scoredChunk
	var lexErr, semErr error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		lexResults, lexErr = s.lexicalSearch(ctx, question, limit)
	}()

	go func() {
		defer wg.Done()
		semResults, semErr = s.semanticSearch(ctx, question, limit)
	}()

	wg.Wait()

	if lexErr != nil && semErr != nil {
		return nil, fmt.Errorf("hybrid retrieval: lexical=%w, semantic=%w", lexErr, semErr)
	}
	if semErr != nil {
		logger.Warn("Semantic retrieval failed, using lexical results only: %v", semErr)
		return lexResults, nil
	}
	if lexErr != nil {
		logger.Warn("Lexical retrieval failed, using semantic results only: %v", lexErr)
		return semResults, nil
	}

	logger.Debug("Fusing %d lexical + %d semantic results", len(lexResults), len(semResults))
	return reciprocalRankFusion(lexResults, semResults, rrfK), nil
}

// Merges two ranked lists using Reciprocal Rank Fusion (RRF).
// k is the constant (typically 60) to prevent high ranks from dominating.
func reciprocalRankFusion(list1, list2 []scoredChunk, k int) []scoredChunk {
	scores := make(map[string]float64)

	for rank, chunk := range list1 {
		scores[chunk.chunkID] += 1.0 / float64(k+rank+1)
	}
	for rank, chunk := range list2 {
		scores[chunk.chunkID] += 1.0 / float64(k+rank+1)
	}

	results := make([]scoredChunk, 0, len(scores))
	for id, score := range scores {
		results = append(results, scoredChunk{chunkID: id, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].chunkID < results[j].chunkID
	})

	return results
}

// hydrate converts chunk IDs to full SearchResult values, dropping
// candidates whose chunk has been deleted since ranking and collapsing
// near-duplicates from the same page.
func (s *RetrieverService) hydrate(ctx context.Context, chunks []scoredChunk, limit int) ([]domain.SearchResult, error) {
	if s.docStore == nil {
		return nil, errors.New("document store unavailable")
	}

	type pageKey struct {
		documentID string
		page       int
	}
	seenPages := make(map[pageKey]int)

	results := make([]domain.SearchResult, 0, limit)

	for _, sc := range chunks {
		if len(results) >= limit {
			break
		}

		chunk, err := s.docStore.GetChunk(ctx, sc.chunkID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Chunk was deleted between ranking and hydration.
				continue
			}
			return nil, fmt.Errorf("get chunk %s: %w", sc.chunkID, err)
		}

		// At most two chunks per page keeps the context set diverse.
		key := pageKey{documentID: chunk.DocumentID, page: chunk.Page}
		if seenPages[key] >= 2 {
			continue
		}
		seenPages[key]++

		results = append(results, domain.SearchResult{
			Chunk: *chunk,
			Score: sc.score,
		})
	}

	return results, nil
}
