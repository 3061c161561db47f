package driven

import (
	"context"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable storage; an in-memory variant exists for tests.
type DocumentStore interface {
	// SaveDocument stores or updates a document's metadata and status.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentByFilename retrieves a document by its unique filename.
	GetDocumentByFilename(ctx context.Context, filename string) (*domain.Document, error)

	// ListDocuments returns all documents, most recently uploaded first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and all of its chunks.
	// Returns domain.ErrNotFound if the document does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// ReplaceChunks atomically swaps the document's chunk set: existing
	// chunks are deleted, the new batch is inserted, and the document's
	// counts and status are updated, all within one transaction. A reader
	// never observes a processed document with a mismatched chunk count.
	ReplaceChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// GetChunks retrieves all chunks for a document, ordered by position.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListEmbeddedChunks returns every chunk that carries an embedding.
	// Used to warm the vector index at startup.
	ListEmbeddedChunks(ctx context.Context) ([]domain.Chunk, error)
}

// MessageStore persists conversation history.
// Append-only; messages are never mutated.
type MessageStore interface {
	// Append stores one completed conversation turn.
	Append(ctx context.Context, msg *domain.ChatMessage) error

	// ListBySession returns up to limit messages for a session in
	// chronological order.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
}
