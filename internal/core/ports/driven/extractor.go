package driven

import (
	"context"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// PageExtractor turns a binary document into a sequence of page texts.
// The PDF parsing library lives behind this port; extraction failures are
// wrapped in domain.ErrExtraction by the implementation.
type PageExtractor interface {
	// Extract parses the document bytes and returns one entry per page,
	// in page order. A document from which no page yields text returns an
	// empty slice and no error; deciding whether that fails the ingestion
	// is the orchestrator's call.
	Extract(ctx context.Context, data []byte) ([]domain.Page, error)
}
