package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	report *driving.IngestReport
	err    error

	gotFilename string
	gotData     []byte
}

func (m *mockIngestService) Ingest(_ context.Context, filename string, data []byte) (*driving.IngestReport, error) {
	m.gotFilename = filename
	m.gotData = data
	return m.report, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer  *domain.Answer
	history []domain.ChatMessage
	err     error

	gotQuestion  string
	gotSessionID string
	gotLimit     int
}

func (m *mockChatService) Ask(_ context.Context, question, sessionID string) (*domain.Answer, error) {
	m.gotQuestion = question
	m.gotSessionID = sessionID
	return m.answer, m.err
}

func (m *mockChatService) History(_ context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	m.gotSessionID = sessionID
	m.gotLimit = limit
	return m.history, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error

	listCalls int
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	m.listCalls++
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Ingest == nil {
		ports.Ingest = &mockIngestService{}
	}
	if ports.Chat == nil {
		ports.Chat = &mockChatService{}
	}
	if ports.Document == nil {
		ports.Document = &mockDocumentService{}
	}
	server, err := NewServer("127.0.0.1:0", ports)
	require.NoError(t, err)
	return server
}

func multipartPDF(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestNewServer_RequiresServices(t *testing.T) {
	_, err := NewServer(":0", &Ports{})
	require.Error(t, err)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t, &Ports{})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestHandleUpload_Success(t *testing.T) {
	ingest := &mockIngestService{
		report: &driving.IngestReport{
			DocumentID:     "doc-1",
			Status:         "processed",
			PagesProcessed: 2,
			ChunksCreated:  5,
			ChunksEmbedded: 5,
		},
	}
	server := newTestServer(t, &Ports{Ingest: ingest})

	body, contentType := multipartPDF(t, "handbook.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "handbook.pdf", ingest.gotFilename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), ingest.gotData)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, 5, resp.ChunksCreated)
}

func TestHandleUpload_RejectsNonPDF(t *testing.T) {
	server := newTestServer(t, &Ports{})

	body, contentType := multipartPDF(t, "notes.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PDF")
}

func TestHandleUpload_MissingFile(t *testing.T) {
	server := newTestServer(t, &Ports{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpload_ExtractionFailure(t *testing.T) {
	ingest := &mockIngestService{
		err: fmt.Errorf("%w: not a PDF", domain.ErrExtraction),
	}
	server := newTestServer(t, &Ports{Ingest: ingest})

	body, contentType := multipartPDF(t, "broken.pdf", []byte("garbage"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "extraction_error")
}

func TestHandleChat_Success(t *testing.T) {
	chat := &mockChatService{
		answer: &domain.Answer{
			Text:    "Expenses are covered in the handbook. (handbook.pdf, p. 3)",
			Sources: []string{"handbook.pdf"},
		},
	}
	server := newTestServer(t, &Ports{Chat: chat})

	payload := `{"question":"what about expenses?","session_id":"s-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(payload))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "what about expenses?", chat.gotQuestion)
	assert.Equal(t, "s-1", chat.gotSessionID)

	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"handbook.pdf"}, resp.Sources)
	assert.False(t, resp.ContextEmpty)
}

func TestHandleChat_InvalidBody(t *testing.T) {
	server := newTestServer(t, &Ports{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString("{broken"))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChat_EmptyQuestion(t *testing.T) {
	chat := &mockChatService{err: fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)}
	server := newTestServer(t, &Ports{Chat: chat})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"question":""}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_input")
}

func TestHandleChat_ModelTimeout(t *testing.T) {
	chat := &mockChatService{err: domain.ErrModelTimeout}
	server := newTestServer(t, &Ports{Chat: chat})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"question":"q"}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "model_timeout")
}

func TestHandleListFiles_CachesList(t *testing.T) {
	docs := &mockDocumentService{
		documents: []domain.Document{
			{ID: "doc-1", Filename: "handbook.pdf", Status: domain.StatusProcessed},
		},
	}
	server := newTestServer(t, &Ports{Document: docs})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "handbook.pdf")
	}

	assert.Equal(t, 1, docs.listCalls)
}

func TestHandleUpload_InvalidatesListCache(t *testing.T) {
	docs := &mockDocumentService{documents: []domain.Document{}}
	ingest := &mockIngestService{report: &driving.IngestReport{DocumentID: "doc-1", Status: "processed"}}
	server := newTestServer(t, &Ports{Document: docs, Ingest: ingest})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	require.Equal(t, 1, docs.listCalls)

	body, contentType := multipartPDF(t, "new.pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files", nil))
	assert.Equal(t, 2, docs.listCalls)
}

func TestHandleGetFile(t *testing.T) {
	docs := &mockDocumentService{
		document: &domain.Document{
			ID:       "doc-1",
			Filename: "handbook.pdf",
			Status:   domain.StatusProcessed,
			Metadata: domain.DocumentMetadata{Title: "Employee Handbook"},
		},
	}
	server := newTestServer(t, &Ports{Document: docs})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/doc-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Employee Handbook")
}

func TestHandleGetFile_NotFound(t *testing.T) {
	docs := &mockDocumentService{err: domain.ErrNotFound}
	server := newTestServer(t, &Ports{Document: docs})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/files/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestHandleDeleteFile(t *testing.T) {
	docs := &mockDocumentService{}
	server := newTestServer(t, &Ports{Document: docs})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/files/doc-1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleDeleteFile_NotFound(t *testing.T) {
	docs := &mockDocumentService{err: domain.ErrNotFound}
	server := newTestServer(t, &Ports{Document: docs})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/files/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleHistory(t *testing.T) {
	chat := &mockChatService{
		history: []domain.ChatMessage{
			{
				ID:        "m-1",
				SessionID: "s-1",
				Question:  "q1",
				Answer:    "a1",
				Sources:   []string{"handbook.pdf"},
				CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	}
	server := newTestServer(t, &Ports{Chat: chat})

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?session_id=s-1&limit=10", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-1", chat.gotSessionID)
	assert.Equal(t, 10, chat.gotLimit)
	assert.Contains(t, rec.Body.String(), "handbook.pdf")
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForKind(domain.FailureInvalidInput))
	assert.Equal(t, http.StatusNotFound, statusForKind(domain.FailureNotFound))
	assert.Equal(t, http.StatusUnprocessableEntity, statusForKind(domain.FailureExtraction))
	assert.Equal(t, http.StatusBadGateway, statusForKind(domain.FailureModelCall))
	assert.Equal(t, http.StatusGatewayTimeout, statusForKind(domain.FailureModelTimeout))
	assert.Equal(t, http.StatusInternalServerError, statusForKind(domain.FailureInternal))
}

func TestRun_GracefulShutdown(t *testing.T) {
	server := newTestServer(t, &Ports{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
