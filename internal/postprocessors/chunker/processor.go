// Package chunker provides a fixed-size text chunking processor.
// Each extracted page is split into sliding windows with overlap so a fact
// spanning a window boundary appears whole in at least one chunk.
package chunker

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// DefaultMaxChars is the default number of characters per chunk.
const DefaultMaxChars = domain.DefaultChunkMaxChars

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = domain.DefaultChunkOverlap

// Processor splits document pages into fixed-size overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	maxChars int
	overlap  int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the chunk size in characters.
func WithMaxChars(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.maxChars = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		maxChars: DefaultMaxChars,
		overlap:  DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.maxChars {
		p.overlap = p.maxChars / 4
	}

	return p
}

// FromSettings creates a chunker from chunking settings.
func FromSettings(cfg domain.ChunkingSettings) *Processor {
	cfg = cfg.Normalised()
	return New(WithMaxChars(cfg.MaxChars), WithOverlap(cfg.OverlapChars))
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits each page of the document into chunks.
// Input chunks are ignored; this processor creates new chunks from the
// document's pages. The ordinal position increases across the whole
// document, not per page. It never fails on any input text.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	position := 0

	for _, page := range doc.Pages {
		for _, window := range p.split(page.Text) {
			// Whitespace-only windows carry nothing worth retrieving.
			if strings.TrimSpace(window) == "" {
				continue
			}

			chunks = append(chunks, domain.Chunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Source:     doc.Filename,
				Page:       page.Number,
				Position:   position,
				Content:    window,
			})
			position++
		}
	}

	return chunks, nil
}

// split cuts one page's text into sliding windows of at most maxChars,
// each window after the first starting overlap characters before the
// previous window's end. Windows keep the raw text so concatenating them
// with the overlap removed reconstructs the page. Cut points back up to
// rune starts so a multi-byte character is never split across windows.
func (p *Processor) split(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= p.maxChars {
		return []string{text}
	}

	stride := p.maxChars - p.overlap

	windows := make([]string, 0, len(text)/stride+1)
	for start := 0; start < len(text); {
		end := start + p.maxChars
		if end >= len(text) {
			end = len(text)
		} else {
			end = runeStart(text, end)
			if end <= start {
				_, size := utf8.DecodeRuneInString(text[start:])
				end = start + size
			}
		}
		windows = append(windows, text[start:end])
		if end == len(text) {
			break
		}

		next := runeStart(text, start+stride)
		if next <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			next = start + size
		}
		start = next
	}

	return windows
}

// runeStart backs pos up to the nearest rune boundary in s.
func runeStart(s string, pos int) int {
	for pos > 0 && !utf8.RuneStart(s[pos]) {
		pos--
	}
	return pos
}
