package pdf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

func TestExtractor_Extract_NotAPDF(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), []byte("plain text, not a pdf"))
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractor_Extract_Empty(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrExtraction)
}

func TestExtractor_Extract_TruncatedHeader(t *testing.T) {
	e := New()

	// A header alone is not a parsable document; must error, not panic.
	_, err := e.Extract(context.Background(), []byte("%PDF-1.4\n"))
	assert.ErrorIs(t, err, domain.ErrExtraction)
}
