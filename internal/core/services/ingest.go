package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Ensure IngestOrchestrator implements the interface.
var _ driving.IngestService = (*IngestOrchestrator)(nil)

// metadataSampleChars is how much document text is shown to the model when
// enriching metadata.
const metadataSampleChars = 4000

// IngestOrchestrator coordinates document ingestion: extraction, the
// processing pipeline, embedding and storage.
type IngestOrchestrator struct {
	extractor        driven.PageExtractor
	pipeline         driven.PostProcessorPipeline
	docStore         driven.DocumentStore
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService

	// Per-filename locks so a re-upload racing an upload of the same file
	// runs one at a time. The winner's chunks are the ones that survive.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewIngestOrchestrator creates a new ingest orchestrator.
// The vectorIndex, embeddingService and llmService parameters are optional
// (can be nil); without them ingestion still stores searchable chunks.
func NewIngestOrchestrator(
	extractor driven.PageExtractor,
	pipeline driven.PostProcessorPipeline,
	docStore driven.DocumentStore,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
) *IngestOrchestrator {
	return &IngestOrchestrator{
		extractor:        extractor,
		pipeline:         pipeline,
		docStore:         docStore,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
		llmService:       llmService,
		locks:            make(map[string]*sync.Mutex),
	}
}

// Ingest processes one uploaded document. Re-uploading an existing filename
// replaces that document's chunks under the same identity.
func (o *IngestOrchestrator) Ingest(ctx context.Context, filename string, data []byte) (*driving.IngestReport, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}

	lock := o.filenameLock(filename)
	lock.Lock()
	defer lock.Unlock()

	logger.Section("Ingestion")
	logger.Info("Ingesting %s (%d bytes)", filename, len(data))

	doc, replaced, err := o.resolveDocument(ctx, filename, len(data))
	if err != nil {
		return nil, err
	}

	// Record the document as processing before the heavy work starts, so
	// listings show the upload immediately.
	if err := o.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	pages, err := o.extractor.Extract(ctx, data)
	if err != nil {
		o.markFailed(ctx, doc, fmt.Sprintf("extraction failed: %v", err))
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}
	if len(pages) == 0 {
		o.markFailed(ctx, doc, "no extractable text")
		return nil, fmt.Errorf("extract %s: %w: no extractable text", filename, domain.ErrExtraction)
	}

	doc.Pages = pages
	doc.PageCount = len(pages)
	logger.Debug("Extracted %d pages", len(pages))

	chunks, err := o.pipeline.Process(ctx, doc)
	if err != nil {
		o.markFailed(ctx, doc, fmt.Sprintf("processing failed: %v", err))
		return nil, fmt.Errorf("process %s: %w", filename, err)
	}
	if len(chunks) == 0 {
		o.markFailed(ctx, doc, "no extractable text")
		return nil, fmt.Errorf("process %s: %w: no extractable text", filename, domain.ErrExtraction)
	}

	logger.Debug("Pipeline produced %d chunks", len(chunks))

	embedded := o.embedChunks(ctx, chunks)

	o.enrichMetadata(ctx, doc)

	doc.Status = domain.StatusProcessed
	doc.FailReason = ""
	doc.ChunkCount = len(chunks)
	doc.UpdatedAt = time.Now().UTC()

	// Old chunks out, new chunks in, counts updated, one transaction.
	if err := o.docStore.ReplaceChunks(ctx, doc, chunks); err != nil {
		// The transaction rolled back, so no chunks exist for this state.
		doc.ChunkCount = 0
		o.markFailed(ctx, doc, fmt.Sprintf("storing chunks failed: %v", err))
		return nil, fmt.Errorf("store chunks for %s: %w", filename, err)
	}

	o.reindexVectors(ctx, doc.ID, chunks)

	logger.Info("Ingested %s: %d pages, %d chunks (%d embedded)",
		filename, len(pages), len(chunks), embedded)

	return &driving.IngestReport{
		DocumentID:     doc.ID,
		Status:         string(doc.Status),
		ChunksCreated:  len(chunks),
		PagesProcessed: len(pages),
		ChunksEmbedded: embedded,
		Replaced:       replaced,
	}, nil
}

// resolveDocument finds the existing document for a filename or creates a
// fresh one. A re-upload keeps the existing identity.
func (o *IngestOrchestrator) resolveDocument(ctx context.Context, filename string, size int) (*domain.Document, bool, error) {
	now := time.Now().UTC()

	existing, err := o.docStore.GetDocumentByFilename(ctx, filename)
	switch {
	case err == nil:
		logger.Debug("Replacing existing document %s", existing.ID)
		existing.Status = domain.StatusProcessing
		existing.FailReason = ""
		existing.FileSize = int64(size)
		existing.UpdatedAt = now
		return existing, true, nil

	case errors.Is(err, domain.ErrNotFound):
		return &domain.Document{
			ID:         uuid.New().String(),
			Filename:   filename,
			Status:     domain.StatusProcessing,
			FileSize:   int64(size),
			UploadedAt: now,
			UpdatedAt:  now,
		}, false, nil

	default:
		return nil, false, fmt.Errorf("lookup %s: %w", filename, err)
	}
}

// embedChunks attaches embeddings to as many chunks as possible. Embedding
// is best effort: a failure leaves the chunk lexical-only and never fails
// the ingestion.
func (o *IngestOrchestrator) embedChunks(ctx context.Context, chunks []domain.Chunk) int {
	if o.embeddingService == nil {
		return 0
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	embeddings, err := o.embeddingService.EmbedBatch(ctx, texts)
	if err != nil || len(embeddings) != len(chunks) {
		logger.Warn("Batch embedding failed, falling back to per-chunk: %v", err)
		return o.embedChunksIndividually(ctx, chunks)
	}

	embedded := 0
	for i := range chunks {
		if len(embeddings[i]) > 0 {
			chunks[i].Embedding = embeddings[i]
			embedded++
		}
	}
	return embedded
}

// embedChunksIndividually is the degraded path when batch embedding fails.
func (o *IngestOrchestrator) embedChunksIndividually(ctx context.Context, chunks []domain.Chunk) int {
	embedded := 0
	for i := range chunks {
		embedding, err := o.embeddingService.Embed(ctx, chunks[i].Content)
		if err != nil {
			logger.Warn("Embedding chunk %s failed: %v", chunks[i].ID, err)
			continue
		}
		chunks[i].Embedding = embedding
		embedded++
	}
	return embedded
}

// enrichMetadata asks the model for a title, summary and topics. Best
// effort; the document keeps zero metadata when the model is unavailable
// or returns garbage.
func (o *IngestOrchestrator) enrichMetadata(ctx context.Context, doc *domain.Document) {
	if o.llmService == nil || len(doc.Pages) == 0 {
		return
	}

	var sample strings.Builder
	for _, page := range doc.Pages {
		if sample.Len() >= metadataSampleChars {
			break
		}
		sample.WriteString(page.Text)
		sample.WriteString("\n")
	}
	text := sample.String()
	if len(text) > metadataSampleChars {
		text = text[:metadataSampleChars]
	}

	prompt := fmt.Sprintf(`Summarise the following document excerpt as JSON with the keys "title", "summary", "topics" (array of strings) and "key_points" (array of strings). Respond with JSON only.

%s`, text)

	raw, err := o.llmService.Generate(ctx, prompt, driven.GenerateOptions{MaxTokens: 500})
	if err != nil {
		logger.Warn("Metadata enrichment failed: %v", err)
		return
	}

	var meta domain.DocumentMetadata
	if err := json.Unmarshal([]byte(extractJSON(raw)), &meta); err != nil {
		logger.Warn("Metadata enrichment returned unparseable output: %v", err)
		return
	}

	doc.Metadata = meta
	logger.Debug("Metadata enriched: title=%q, topics=%d", meta.Title, len(meta.Topics))
}

// extractJSON trims chatter around the first JSON object in model output.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// reindexVectors replaces the document's vectors with the new chunk set.
// Index maintenance is best effort; the embeddings stay durable in the
// store and the index is rebuilt from it at startup.
func (o *IngestOrchestrator) reindexVectors(ctx context.Context, documentID string, chunks []domain.Chunk) {
	if o.vectorIndex == nil {
		return
	}

	if err := o.vectorIndex.DeleteByDocument(ctx, documentID); err != nil {
		logger.Warn("Vector index cleanup failed for %s: %v", documentID, err)
	}

	for i := range chunks {
		if !chunks[i].HasEmbedding() {
			continue
		}
		if err := o.vectorIndex.Add(ctx, chunks[i].ID, documentID, chunks[i].Embedding); err != nil {
			logger.Warn("Vector index add failed for chunk %s: %v", chunks[i].ID, err)
		}
	}
}

// markFailed records a failed ingestion so the document list shows what
// happened. Existing chunks from a previous successful ingest are kept.
func (o *IngestOrchestrator) markFailed(ctx context.Context, doc *domain.Document, reason string) {
	doc.Status = domain.StatusFailed
	doc.FailReason = reason
	doc.UpdatedAt = time.Now().UTC()

	if err := o.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to record failure for %s: %v", doc.Filename, err)
	}
}

// filenameLock returns the mutex serialising ingestions of one filename.
func (o *IngestOrchestrator) filenameLock(filename string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()

	lock, ok := o.locks[filename]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[filename] = lock
	}
	return lock
}
