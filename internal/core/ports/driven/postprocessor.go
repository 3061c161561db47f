package driven

import (
	"context"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// PostProcessor transforms a document during ingestion.
// Processors run in a pipeline: the first receives nil chunks and usually
// creates them, later ones may modify the chunk set.
type PostProcessor interface {
	// Name returns the processor name for error reporting.
	Name() string

	// Process transforms the document and/or its chunks.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs a document through an ordered set of
// processors and returns the resulting chunks.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
