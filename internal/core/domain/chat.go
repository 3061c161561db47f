package domain

import "time"

// ChatMessage is one completed turn of conversation: a question, the answer
// that was produced for it, and the documents that supplied context.
// Messages are append-only and keyed by session for history replay.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// SessionID groups messages into a conversation thread.
	SessionID string

	// Question is the user's question text.
	Question string

	// Answer is the model's response text.
	Answer string

	// Sources lists the distinct filenames supplied as context.
	Sources []string

	// CreatedAt orders messages within a session.
	CreatedAt time.Time
}

// Answer is the result of a successful retrieval-augmented answer.
type Answer struct {
	// Text is the model's response.
	Text string

	// Sources lists the distinct source filenames that were supplied in
	// context, whether or not the model cited them explicitly.
	Sources []string

	// ContextEmpty is true when retrieval found nothing and the model was
	// told so. The answer then states that no relevant context exists.
	ContextEmpty bool
}
