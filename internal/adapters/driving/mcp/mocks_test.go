package mcp

import (
	"context"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	answer  *domain.Answer
	history []domain.ChatMessage
	err     error

	gotQuestion  string
	gotSessionID string
}

func (m *mockChatService) Ask(_ context.Context, question, sessionID string) (*domain.Answer, error) {
	m.gotQuestion = question
	m.gotSessionID = sessionID
	return m.answer, m.err
}

func (m *mockChatService) History(_ context.Context, _ string, _ int) ([]domain.ChatMessage, error) {
	return m.history, m.err
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.SearchResult
	err     error

	gotTopK int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _ string, topK int) ([]domain.SearchResult, error) {
	m.gotTopK = topK
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}
