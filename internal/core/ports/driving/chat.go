package driving

import (
	"context"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

// ChatService answers questions against the ingested documents.
type ChatService interface {
	// Ask retrieves context for the question, invokes the language model
	// and persists the completed turn. The returned error carries a
	// domain failure kind; no message is persisted for a failed turn.
	Ask(ctx context.Context, question, sessionID string) (*domain.Answer, error)

	// History returns up to limit turns for a session in chronological
	// order.
	History(ctx context.Context, sessionID string, limit int) ([]domain.ChatMessage, error)
}

// RetrievalService exposes context retrieval without answering, for
// search-style surfaces (MCP tools, debugging).
type RetrievalService interface {
	// Retrieve returns the ranked chunks that would be supplied as
	// context for the question. An empty knowledge base yields an empty
	// slice, never an error.
	Retrieve(ctx context.Context, question string, topK int) ([]domain.SearchResult, error)
}
