package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

type stubDocumentService struct {
	docs      []domain.Document
	deletedID string
	err       error
}

func (s *stubDocumentService) List(context.Context) ([]domain.Document, error) {
	return s.docs, s.err
}

func (s *stubDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.docs {
		if s.docs[i].ID == id {
			return &s.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubDocumentService) Delete(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	s.deletedID = id
	return nil
}

// withStubServices marks the service graph as initialised and installs the
// stub, restoring the previous state when the test ends.
func withStubServices(t *testing.T, docs *stubDocumentService) {
	t.Helper()
	initOnce.Do(func() {})
	prev := documentService
	documentService = docs
	t.Cleanup(func() { documentService = prev })
}

func newTestCommand(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetContext(context.Background())
	return cmd
}

func TestDocumentsList(t *testing.T) {
	withStubServices(t, &stubDocumentService{docs: []domain.Document{
		{
			ID:         "doc-1",
			Filename:   "handbook.pdf",
			Status:     domain.StatusProcessed,
			PageCount:  10,
			ChunkCount: 42,
			UploadedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}})

	var buf bytes.Buffer
	if err := runDocumentsList(newTestCommand(&buf), nil); err != nil {
		t.Fatalf("list: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"doc-1", "handbook.pdf", "processed", "10 pages", "42 chunks", "1 document(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDocumentsList_Empty(t *testing.T) {
	withStubServices(t, &stubDocumentService{})

	var buf bytes.Buffer
	if err := runDocumentsList(newTestCommand(&buf), nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "No documents ingested") {
		t.Errorf("empty list hint missing:\n%s", buf.String())
	}
}

func TestDocumentsGet(t *testing.T) {
	withStubServices(t, &stubDocumentService{docs: []domain.Document{
		{
			ID:         "doc-1",
			Filename:   "handbook.pdf",
			Status:     domain.StatusFailed,
			FailReason: "no extractable text",
			UploadedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}})

	var buf bytes.Buffer
	if err := runDocumentsGet(newTestCommand(&buf), []string{"doc-1"}); err != nil {
		t.Fatalf("get: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"handbook.pdf", "failed", "no extractable text", "2025-06-01"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestDocumentsGet_NotFound(t *testing.T) {
	withStubServices(t, &stubDocumentService{})

	var buf bytes.Buffer
	err := runDocumentsGet(newTestCommand(&buf), []string{"missing"})
	if err == nil {
		t.Fatal("expected error for unknown document")
	}
}

func TestDocumentsDelete(t *testing.T) {
	stub := &stubDocumentService{}
	withStubServices(t, stub)

	var buf bytes.Buffer
	if err := runDocumentsDelete(newTestCommand(&buf), []string{"doc-9"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if stub.deletedID != "doc-9" {
		t.Errorf("deleted %q, want doc-9", stub.deletedID)
	}
	if !strings.Contains(buf.String(), "Deleted doc-9") {
		t.Errorf("confirmation missing:\n%s", buf.String())
	}
}
