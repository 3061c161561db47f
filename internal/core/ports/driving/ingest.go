package driving

import "context"

// IngestService turns uploaded documents into stored, searchable chunks.
type IngestService interface {
	// Ingest processes one uploaded document. Re-uploading an existing
	// filename replaces that document's chunks under the same identity.
	// Concurrent ingestions of the same filename are serialized.
	Ingest(ctx context.Context, filename string, data []byte) (*IngestReport, error)
}

// IngestReport summarises a completed ingestion.
type IngestReport struct {
	// DocumentID is the identity of the ingested document.
	DocumentID string

	// Status is the resulting document status ("processed" or "failed").
	Status string

	// ChunksCreated is the number of chunks persisted.
	ChunksCreated int

	// PagesProcessed is the number of pages that produced text.
	PagesProcessed int

	// ChunksEmbedded is the number of chunks that carry an embedding.
	// May be lower than ChunksCreated when embedding degraded.
	ChunksEmbedded int

	// Replaced is true when an existing document was re-ingested.
	Replaced bool
}
