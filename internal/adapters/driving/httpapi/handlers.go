package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/logger"
)

// documentResponse is the wire representation of a document.
type documentResponse struct {
	ID         string   `json:"id"`
	Filename   string   `json:"filename"`
	Status     string   `json:"status"`
	FailReason string   `json:"fail_reason,omitempty"`
	PageCount  int      `json:"page_count"`
	ChunkCount int      `json:"chunk_count"`
	FileSize   int64    `json:"file_size"`
	Title      string   `json:"title,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Topics     []string `json:"topics,omitempty"`
	KeyPoints  []string `json:"key_points,omitempty"`
	UploadedAt string   `json:"uploaded_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func toDocumentResponse(doc domain.Document) documentResponse {
	return documentResponse{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Status:     string(doc.Status),
		FailReason: doc.FailReason,
		PageCount:  doc.PageCount,
		ChunkCount: doc.ChunkCount,
		FileSize:   doc.FileSize,
		Title:      doc.Metadata.Title,
		Summary:    doc.Metadata.Summary,
		Topics:     doc.Metadata.Topics,
		KeyPoints:  doc.Metadata.KeyPoints,
		UploadedAt: doc.UploadedAt.Format(time.RFC3339),
		UpdatedAt:  doc.UpdatedAt.Format(time.RFC3339),
	}
}

// uploadResponse reports the outcome of an ingestion.
type uploadResponse struct {
	DocumentID     string `json:"document_id"`
	Status         string `json:"status"`
	PagesProcessed int    `json:"pages_processed"`
	ChunksCreated  int    `json:"chunks_created"`
	ChunksEmbedded int    `json:"chunks_embedded"`
	Replaced       bool   `json:"replaced"`
}

// chatRequest is the question payload.
type chatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

// chatResponse is the answer payload.
type chatResponse struct {
	Answer       string   `json:"answer"`
	Sources      []string `json:"sources"`
	ContextEmpty bool     `json:"context_empty"`
}

// historyResponse is one persisted conversation turn.
type historyResponse struct {
	ID        string   `json:"id"`
	SessionID string   `json:"session_id"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	CreatedAt string   `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.FailureInvalidInput, "multipart 'file' field is required")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		writeError(w, http.StatusBadRequest, domain.FailureInvalidInput, "only PDF uploads are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.FailureInvalidInput, "reading upload: "+err.Error())
		return
	}

	report, err := s.ports.Ingest.Ingest(r.Context(), filename, data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.listCache.Invalidate()

	writeJSON(w, http.StatusCreated, uploadResponse{
		DocumentID:     report.DocumentID,
		Status:         report.Status,
		PagesProcessed: report.PagesProcessed,
		ChunksCreated:  report.ChunksCreated,
		ChunksEmbedded: report.ChunksEmbedded,
		Replaced:       report.Replaced,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.FailureInvalidInput, "invalid JSON body")
		return
	}

	answer, err := s.ports.Chat.Ask(r.Context(), req.Question, req.SessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	sources := answer.Sources
	if sources == nil {
		sources = []string{}
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Answer:       answer.Text,
		Sources:      sources,
		ContextEmpty: answer.ContextEmpty,
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.listCache.Get()
	if !ok {
		var err error
		docs, err = s.ports.Document.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		s.listCache.Set(docs)
	} else {
		logger.Debug("document list served from cache")
	}

	out := make([]documentResponse, len(docs))
	for i := range docs {
		out[i] = toDocumentResponse(docs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	doc, err := s.ports.Document.Get(r.Context(), documentID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(*doc))
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")

	if err := s.ports.Document.Delete(r.Context(), documentID); err != nil {
		writeDomainError(w, err)
		return
	}

	s.listCache.Invalidate()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := s.ports.Chat.History(r.Context(), sessionID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]historyResponse, len(messages))
	for i := range messages {
		sources := messages[i].Sources
		if sources == nil {
			sources = []string{}
		}
		out[i] = historyResponse{
			ID:        messages[i].ID,
			SessionID: messages[i].SessionID,
			Question:  messages[i].Question,
			Answer:    messages[i].Answer,
			Sources:   sources,
			CreatedAt: messages[i].CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, out)
}
