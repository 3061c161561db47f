package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/logger"
)

// systemPrompt instructs the model to stay inside the supplied context.
const systemPrompt = `You are a helpful assistant that answers questions about uploaded documents.

Rules:
- Answer ONLY from the provided document context.
- When you use information from the context, cite the source file and page, for example (report.pdf, p. 3).
- If the context does not contain the answer, say so plainly instead of guessing.
- Keep answers concise and factual.`

// emptyContextNote is supplied in place of document context when retrieval
// found nothing, so the model declines rather than improvises.
const emptyContextNote = "No matching document context was found for this question."

// defaultAnswerTimeout bounds a model call when no timeout is configured.
const defaultAnswerTimeout = 60 * time.Second

// AnswerComposer turns a question plus retrieved context into a grounded
// answer via the language model.
type AnswerComposer struct {
	llmService driven.LLMService
	timeout    time.Duration
}

// NewAnswerComposer creates a new composer. A zero timeout falls back to
// the default.
func NewAnswerComposer(llmService driven.LLMService, timeout time.Duration) *AnswerComposer {
	if timeout <= 0 {
		timeout = defaultAnswerTimeout
	}
	return &AnswerComposer{
		llmService: llmService,
		timeout:    timeout,
	}
}

// Compose builds the prompt from context and history and invokes the model.
// History is included oldest first. A model run past the deadline returns
// domain.ErrModelTimeout; any other model failure returns domain.ErrModelCall.
func (c *AnswerComposer) Compose(
	ctx context.Context,
	question string,
	contexts []domain.SearchResult,
	history []domain.ChatMessage,
) (*domain.Answer, error) {
	if c.llmService == nil {
		return nil, domain.ErrLLMUnavailable
	}

	logger.Section("Answer Composition")
	logger.Debug("Context chunks: %d, history turns: %d", len(contexts), len(history))

	messages := make([]driven.ChatMessage, 0, len(history)*2+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: systemPrompt})

	for _, turn := range history {
		messages = append(messages,
			driven.ChatMessage{Role: "user", Content: turn.Question},
			driven.ChatMessage{Role: "assistant", Content: turn.Answer},
		)
	}

	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: buildUserPrompt(question, contexts),
	})

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.llmService.Chat(callCtx, messages, driven.ChatOptions{})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			logger.Warn("Model call timed out after %s", c.timeout)
			return nil, fmt.Errorf("%w: %v", domain.ErrModelTimeout, err)
		}
		logger.Warn("Model call failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrModelCall, err)
	}

	return &domain.Answer{
		Text:         strings.TrimSpace(text),
		Sources:      distinctSources(contexts),
		ContextEmpty: len(contexts) == 0,
	}, nil
}

// buildUserPrompt labels every context block with its provenance so the
// model can cite file and page.
func buildUserPrompt(question string, contexts []domain.SearchResult) string {
	var b strings.Builder

	b.WriteString("Document context:\n\n")
	if len(contexts) == 0 {
		b.WriteString(emptyContextNote)
		b.WriteString("\n")
	}
	for _, result := range contexts {
		fmt.Fprintf(&b, "[From %s, Page %d]\n%s\n\n", result.Chunk.Source, result.Chunk.Page, result.Chunk.Content)
	}

	b.WriteString("\nQuestion: ")
	b.WriteString(question)

	return b.String()
}

// distinctSources returns each context filename once, in first-seen order.
func distinctSources(contexts []domain.SearchResult) []string {
	seen := make(map[string]bool, len(contexts))
	sources := make([]string, 0, len(contexts))

	for _, result := range contexts {
		if result.Chunk.Source == "" || seen[result.Chunk.Source] {
			continue
		}
		seen[result.Chunk.Source] = true
		sources = append(sources, result.Chunk.Source)
	}

	return sources
}
