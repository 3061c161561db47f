package domain

import "time"

// DocumentStatus tracks a document through the ingestion lifecycle.
type DocumentStatus string

// Document lifecycle states.
const (
	// StatusProcessing means ingestion is underway and chunks are not yet
	// visible to retrieval.
	StatusProcessing DocumentStatus = "processing"

	// StatusProcessed means all chunks are persisted and searchable.
	StatusProcessed DocumentStatus = "processed"

	// StatusFailed is the terminal error state. FailReason carries the cause.
	StatusFailed DocumentStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusProcessing, StatusProcessed, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true once the document can no longer change state
// without a re-upload.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusProcessed || s == StatusFailed
}

// Document represents one uploaded PDF and its ingestion state.
// Filename is the unique business key; re-uploading under the same
// filename replaces the chunks but keeps the document identity.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original upload name, unique across documents.
	Filename string

	// Status is the current ingestion state.
	Status DocumentStatus

	// FailReason explains a failed ingestion. Empty unless Status is failed.
	FailReason string

	// PageCount is the number of pages the extractor produced.
	PageCount int

	// ChunkCount is the number of chunks persisted for this document.
	// A reader must never observe Status processed with a stale count.
	ChunkCount int

	// FileSize is the uploaded file size in bytes.
	FileSize int64

	// Metadata holds optional LLM-derived descriptive fields.
	Metadata DocumentMetadata

	// Pages holds the extracted page text during ingestion.
	// Not persisted; chunks are the durable representation.
	Pages []Page

	// UploadedAt is when the document was first uploaded.
	UploadedAt time.Time

	// UpdatedAt is when the document last changed state.
	UpdatedAt time.Time
}

// DocumentMetadata is the enumerated set of optional descriptive fields a
// document may carry. Kept as an explicit struct rather than an open map so
// the contract stays checkable.
type DocumentMetadata struct {
	Title     string   `json:"title,omitempty"`
	Summary   string   `json:"summary,omitempty"`
	Topics    []string `json:"topics,omitempty"`
	KeyPoints []string `json:"key_points,omitempty"`
}

// IsZero reports whether no metadata field is set.
func (m DocumentMetadata) IsZero() bool {
	return m.Title == "" && m.Summary == "" && len(m.Topics) == 0 && len(m.KeyPoints) == 0
}

// Page is one page of extracted text, as produced by the PDF extractor.
type Page struct {
	// Number is the 1-based page number within the source document.
	Number int

	// Text is the extracted plain text for the page.
	Text string
}

// Chunk is a bounded span of text from one page of one document.
// Chunks are immutable once created; they are only ever deleted together
// with their document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Source is the owning document's filename, denormalised for citation.
	Source string

	// Page is the 1-based page number the chunk was cut from.
	Page int

	// Position is the ordinal index within the whole document, monotone
	// across pages so chunk order is reconstructible.
	Position int

	// Content is the chunk text. Length is bounded by the chunking
	// configuration to keep prompts within model context limits.
	Content string

	// Embedding is the optional vector representation for semantic search.
	// Nil when embedding was disabled or failed for this chunk.
	Embedding []float32
}

// HasEmbedding reports whether the chunk carries a vector.
func (c Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}
