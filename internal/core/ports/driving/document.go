package driving

import (
	"context"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// DocumentService manages the ingested document catalogue.
type DocumentService interface {
	// List returns all documents, most recently uploaded first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Delete removes a document, its chunks and its index entries.
	// Returns domain.ErrNotFound for an unknown ID.
	Delete(ctx context.Context, documentID string) error
}
