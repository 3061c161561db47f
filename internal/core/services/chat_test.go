package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asfc-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/asfc-labs/docchat/internal/core/domain"
)

// mockRetriever implements driving.RetrievalService for testing.
type mockRetriever struct {
	results []domain.SearchResult
	err     error
	gotTopK int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, topK int) ([]domain.SearchResult, error) {
	m.gotTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func newTestChatService(retriever *mockRetriever, llm *mockLLMService, store *memory.MessageStore) *ChatService {
	composer := NewAnswerComposer(llm, time.Minute)
	svc := NewChatService(retriever, composer, nil, domain.RetrievalSettings{TopK: 5, HistoryTurns: 6})
	if store != nil {
		svc.messageStore = store
	}
	return svc
}

func TestChatService_Ask_Success(t *testing.T) {
	retriever := &mockRetriever{results: testContexts()}
	llm := &mockLLMService{chatResult: "The answer."}
	store := memory.NewMessageStore()

	svc := newTestChatService(retriever, llm, store)

	answer, err := svc.Ask(context.Background(), "What is the policy?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer.Text)
	assert.Equal(t, 5, retriever.gotTopK)

	// The completed turn is recorded.
	history, err := svc.History(context.Background(), "s1", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "What is the policy?", history[0].Question)
	assert.Equal(t, "The answer.", history[0].Answer)
	assert.Equal(t, []string{"handbook.pdf", "api-guide.pdf"}, history[0].Sources)
}

func TestChatService_Ask_EmptyQuestion(t *testing.T) {
	svc := newTestChatService(&mockRetriever{}, &mockLLMService{}, memory.NewMessageStore())

	_, err := svc.Ask(context.Background(), "   ", "s1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChatService_Ask_DefaultSession(t *testing.T) {
	retriever := &mockRetriever{results: testContexts()}
	llm := &mockLLMService{chatResult: "answer"}
	store := memory.NewMessageStore()

	svc := newTestChatService(retriever, llm, store)

	_, err := svc.Ask(context.Background(), "question?", "")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), DefaultSessionID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChatService_Ask_FailedTurnNotRecorded(t *testing.T) {
	retriever := &mockRetriever{results: testContexts()}
	llm := &mockLLMService{chatErr: context.DeadlineExceeded}
	store := memory.NewMessageStore()

	svc := newTestChatService(retriever, llm, store)

	_, err := svc.Ask(context.Background(), "question?", "s1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelTimeout)

	history, err := svc.History(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.Empty(t, history, "failed turns must not appear in history")
}

func TestChatService_Ask_EmptyContextStillAnswers(t *testing.T) {
	retriever := &mockRetriever{results: nil}
	llm := &mockLLMService{chatResult: "Nothing relevant was found."}
	store := memory.NewMessageStore()

	svc := newTestChatService(retriever, llm, store)

	answer, err := svc.Ask(context.Background(), "question?", "s1")
	require.NoError(t, err)
	assert.True(t, answer.ContextEmpty)
	assert.Empty(t, answer.Sources)
}

func TestChatService_Ask_HistoryFlowsIntoPrompt(t *testing.T) {
	retriever := &mockRetriever{results: testContexts()}
	llm := &mockLLMService{chatResult: "answer"}
	store := memory.NewMessageStore()

	svc := newTestChatService(retriever, llm, store)

	_, err := svc.Ask(context.Background(), "first?", "s1")
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), "second?", "s1")
	require.NoError(t, err)

	// system + prior turn (user, assistant) + new question.
	require.Len(t, llm.chatMessages, 4)
	assert.Equal(t, "first?", llm.chatMessages[1].Content)
	assert.Equal(t, "answer", llm.chatMessages[2].Content)
}

func TestChatService_Ask_NilMessageStore(t *testing.T) {
	retriever := &mockRetriever{results: testContexts()}
	llm := &mockLLMService{chatResult: "answer"}

	svc := newTestChatService(retriever, llm, nil)

	answer, err := svc.Ask(context.Background(), "question?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "answer", answer.Text)

	history, err := svc.History(context.Background(), "s1", 10)
	require.NoError(t, err)
	assert.Nil(t, history)
}
