package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOpenRouter is the OpenRouter aggregator. It speaks the
	// OpenAI wire format with a different base URL.
	AIProviderOpenRouter AIProvider = "openrouter"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderOpenRouter:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderOpenRouter
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOpenRouter:
		return "OpenRouter (cloud)"
	default:
		return unknownDescription
	}
}

// Chunking defaults.
const (
	DefaultChunkMaxChars = 1000
	DefaultChunkOverlap  = 200
)

// ChunkingSettings bounds how page text is split into chunks.
type ChunkingSettings struct {
	// MaxChars is the upper bound on chunk length in characters.
	MaxChars int

	// OverlapChars is how far each window reaches back into the previous
	// one, so a fact spanning a boundary appears whole in one chunk.
	OverlapChars int
}

// Normalised returns the settings with defaults applied and the overlap
// forced below the chunk size.
func (c ChunkingSettings) Normalised() ChunkingSettings {
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultChunkMaxChars
	}
	if c.OverlapChars < 0 {
		c.OverlapChars = DefaultChunkOverlap
	}
	if c.OverlapChars >= c.MaxChars {
		c.OverlapChars = c.MaxChars / 4
	}
	return c
}

// RetrievalSettings configures how context is selected for a question.
type RetrievalSettings struct {
	// TopK is the number of chunks to retrieve. Clamped to [1, MaxTopK].
	TopK int

	// Semantic enables embedding-based similarity ranking when an
	// embedding service is configured.
	Semantic bool

	// HistoryTurns bounds how many recent conversation turns are included
	// in the prompt, oldest first.
	HistoryTurns int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Dimensions is the embedding vector size. Model-dependent.
	Dimensions int

	// Timeout bounds each embedding call.
	Timeout time.Duration
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds language model provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Timeout bounds each model call. A run past the deadline surfaces
	// as ErrModelTimeout rather than hanging the request.
	Timeout time.Duration

	// RequestsPerMinute rate-limits outbound model calls. Zero disables
	// limiting.
	RequestsPerMinute int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Settings aggregates all runtime configuration consumed by the core.
type Settings struct {
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
}
