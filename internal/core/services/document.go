package services

import (
	"context"
	"fmt"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the ingested document catalogue.
type DocumentService struct {
	docStore    driven.DocumentStore
	vectorIndex driven.VectorIndex
}

// NewDocumentService creates a new document service. The vectorIndex
// parameter is optional (can be nil).
func NewDocumentService(docStore driven.DocumentStore, vectorIndex driven.VectorIndex) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		vectorIndex: vectorIndex,
	}
}

// List returns all documents, most recently uploaded first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, documentID)
}

// Delete removes a document, its chunks and its index entries.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	// The store is the source of truth; a stale vector entry only costs a
	// skipped hit at hydration, so cleanup failures are logged, not fatal.
	if s.vectorIndex != nil {
		if err := s.vectorIndex.DeleteByDocument(ctx, documentID); err != nil {
			logger.Warn("Vector index cleanup failed for %s: %v", documentID, err)
		}
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}
