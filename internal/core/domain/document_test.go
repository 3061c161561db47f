package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStatus_IsValid(t *testing.T) {
	tests := []struct {
		status DocumentStatus
		valid  bool
	}{
		{StatusProcessing, true},
		{StatusProcessed, true},
		{StatusFailed, true},
		{DocumentStatus(""), false},
		{DocumentStatus("done"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
		})
	}
}

func TestDocumentStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusProcessing.IsTerminal())
	assert.True(t, StatusProcessed.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
}

func TestDocumentMetadata_IsZero(t *testing.T) {
	assert.True(t, DocumentMetadata{}.IsZero())
	assert.False(t, DocumentMetadata{Title: "Fuel Bulletin"}.IsZero())
	assert.False(t, DocumentMetadata{Topics: []string{"fuel"}}.IsZero())
}

func TestChunk_HasEmbedding(t *testing.T) {
	assert.False(t, Chunk{}.HasEmbedding())
	assert.False(t, Chunk{Embedding: []float32{}}.HasEmbedding())
	assert.True(t, Chunk{Embedding: []float32{0.1, 0.2}}.HasEmbedding())
}
