package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asfc-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/asfc-labs/docchat/internal/core/domain"
)

func TestDocumentService_List(t *testing.T) {
	store := setupTestDocStore(t)
	svc := NewDocumentService(store, nil)

	docs, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_Get(t *testing.T) {
	store := setupTestDocStore(t)
	svc := NewDocumentService(store, nil)

	doc, err := svc.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "handbook.pdf", doc.Filename)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete(t *testing.T) {
	store := setupTestDocStore(t)
	vector := &mockVectorIndex{}
	svc := NewDocumentService(store, vector)

	err := svc.Delete(context.Background(), "doc-1")
	require.NoError(t, err)

	_, err = store.GetDocument(context.Background(), "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	chunks, err := store.GetChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	assert.Equal(t, []string{"doc-1"}, vector.deletedDoc)
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore(), nil)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
