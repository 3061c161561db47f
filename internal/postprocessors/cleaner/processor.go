// Package cleaner provides a page text normalisation processor.
// It runs before the chunker so that chunk boundaries are computed over
// clean text rather than raw extractor output.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	pageOfRe     = regexp.MustCompile(`(?i)Page \d+ of \d+`)
	pageSlashRe  = regexp.MustCompile(`\d+\s*/\s*\d+`)
)

// unicode punctuation commonly produced by PDF extraction.
var punctReplacer = strings.NewReplacer(
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "--",
)

// Processor normalises extracted page text in place.
// It implements the PostProcessor interface and passes chunks through
// untouched; it only rewrites doc.Pages.
type Processor struct{}

// New creates a new cleaner processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process cleans every page of the document. It never fails.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	for i := range doc.Pages {
		doc.Pages[i].Text = Clean(doc.Pages[i].Text)
	}
	return chunks, nil
}

// Clean normalises one page of extracted text: collapses whitespace, strips
// page-number artefacts and replaces typographic punctuation with ASCII.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = pageOfRe.ReplaceAllString(text, "")
	text = pageSlashRe.ReplaceAllString(text, "")
	text = punctReplacer.Replace(text)
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}
