package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
)

// Ensure MessageStore implements the interface.
var _ driven.MessageStore = (*MessageStore)(nil)

// MessageStore is an in-memory implementation of driven.MessageStore.
type MessageStore struct {
	mu       sync.RWMutex
	messages map[string][]domain.ChatMessage
}

// NewMessageStore creates a new in-memory message store.
func NewMessageStore() *MessageStore {
	return &MessageStore{
		messages: make(map[string][]domain.ChatMessage),
	}
}

// Append stores one completed conversation turn.
func (s *MessageStore) Append(_ context.Context, msg *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.SessionID] = append(s.messages[msg.SessionID], *msg)
	return nil
}

// ListBySession returns up to limit messages for a session in
// chronological order. The most recent turns win when truncating.
func (s *MessageStore) ListBySession(_ context.Context, sessionID string, limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[sessionID]
	result := make([]domain.ChatMessage, len(msgs))
	copy(result, msgs)

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}
