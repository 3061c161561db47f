// Package pdf extracts page text from PDF documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor parses PDF bytes into per-page text.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the document and returns one entry per page that yields
// text. Pages keep their original one-based numbers so citations line up
// with what a PDF viewer shows.
func (e *Extractor) Extract(ctx context.Context, data []byte) (pages []domain.Page, err error) {
	// The parser panics on some malformed files; turn that into a
	// normal extraction error.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: malformed document: %v", domain.ErrExtraction, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	total := reader.NumPage()
	logger.Debug("PDF has %d pages", total)

	pages = make([]domain.Page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// One unreadable page should not sink the document.
			logger.Warn("Page %d unreadable: %v", i, err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		pages = append(pages, domain.Page{Number: i, Text: text})
	}

	return pages, nil
}
