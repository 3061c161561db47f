package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
	"github.com/asfc-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// DefaultSessionID groups turns when the caller does not manage sessions.
const DefaultSessionID = "default"

// DefaultHistoryTurns bounds the conversation history included in a prompt.
const DefaultHistoryTurns = 6

// ChatService answers questions against the ingested documents and keeps
// the conversation history.
type ChatService struct {
	retriever    driving.RetrievalService
	composer     *AnswerComposer
	messageStore driven.MessageStore
	topK         int
	historyTurns int
}

// NewChatService creates a new chat service. The messageStore parameter is
// optional (can be nil); without it turns are answered but not recorded.
func NewChatService(
	retriever driving.RetrievalService,
	composer *AnswerComposer,
	messageStore driven.MessageStore,
	retrieval domain.RetrievalSettings,
) *ChatService {
	historyTurns := retrieval.HistoryTurns
	if historyTurns <= 0 {
		historyTurns = DefaultHistoryTurns
	}
	return &ChatService{
		retriever:    retriever,
		composer:     composer,
		messageStore: messageStore,
		topK:         domain.ClampTopK(retrieval.TopK),
		historyTurns: historyTurns,
	}
}

// Ask retrieves context for the question, invokes the model and persists
// the completed turn. Nothing is persisted when retrieval or the model
// call fails, so history only ever contains completed turns.
func (s *ChatService) Ask(ctx context.Context, question, sessionID string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	logger.Section("Chat Turn")
	logger.Debug("Session: %s", sessionID)

	contexts, err := s.retriever.Retrieve(ctx, question, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	history, err := s.History(ctx, sessionID, s.historyTurns)
	if err != nil {
		// A broken history store should not block answering.
		logger.Warn("History lookup failed: %v", err)
		history = nil
	}

	answer, err := s.composer.Compose(ctx, question, contexts, history)
	if err != nil {
		return nil, err
	}

	s.record(ctx, sessionID, question, answer)

	return answer, nil
}

// History returns up to limit turns for a session in chronological order.
func (s *ChatService) History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	if s.messageStore == nil {
		return nil, nil
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	if limit <= 0 {
		limit = DefaultHistoryTurns
	}

	messages, err := s.messageStore.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return messages, nil
}

// record appends the completed turn. A storage failure loses the history
// entry but never the answer the user already has.
func (s *ChatService) record(ctx context.Context, sessionID, question string, answer *domain.Answer) {
	if s.messageStore == nil {
		return
	}

	msg := &domain.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Question:  question,
		Answer:    answer.Text,
		Sources:   answer.Sources,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.messageStore.Append(ctx, msg); err != nil {
		logger.Warn("Failed to record chat turn: %v", err)
	}
}
