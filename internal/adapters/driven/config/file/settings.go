package file

import (
	"os"
	"time"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
)

// Environment variables that override the corresponding config keys, so
// API keys can stay out of the config file entirely.
const (
	EnvLLMAPIKey       = "DOCCHAT_LLM_API_KEY"
	EnvEmbeddingAPIKey = "DOCCHAT_EMBEDDING_API_KEY"
)

// Configuration keys. Dotted keys map to TOML tables, so the config file
// reads as [chunking], [retrieval], [embedding] and [llm] sections.
const (
	KeyChunkMaxChars = "chunking.max_chars"
	KeyChunkOverlap  = "chunking.overlap_chars"

	KeyRetrievalTopK     = "retrieval.top_k"
	KeyRetrievalSemantic = "retrieval.semantic"
	KeyHistoryTurns      = "retrieval.history_turns"

	KeyEmbeddingProvider   = "embedding.provider"
	KeyEmbeddingModel      = "embedding.model"
	KeyEmbeddingBaseURL    = "embedding.base_url"
	KeyEmbeddingAPIKey     = "embedding.api_key"
	KeyEmbeddingDimensions = "embedding.dimensions"
	KeyEmbeddingTimeout    = "embedding.timeout_seconds"

	KeyLLMProvider          = "llm.provider"
	KeyLLMModel             = "llm.model"
	KeyLLMBaseURL           = "llm.base_url"
	KeyLLMAPIKey            = "llm.api_key"
	KeyLLMTimeout           = "llm.timeout_seconds"
	KeyLLMRequestsPerMinute = "llm.requests_per_minute"
)

// LoadSettings builds domain settings from the config store. Absent keys
// fall back to domain defaults.
func LoadSettings(store driven.ConfigStore) domain.Settings {
	settings := domain.Settings{
		Chunking: domain.ChunkingSettings{
			MaxChars:     store.GetInt(KeyChunkMaxChars),
			OverlapChars: store.GetInt(KeyChunkOverlap),
		}.Normalised(),
		Retrieval: domain.RetrievalSettings{
			TopK:         store.GetInt(KeyRetrievalTopK),
			Semantic:     store.GetBool(KeyRetrievalSemantic),
			HistoryTurns: store.GetInt(KeyHistoryTurns),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.AIProvider(store.GetString(KeyEmbeddingProvider)),
			Model:      store.GetString(KeyEmbeddingModel),
			BaseURL:    store.GetString(KeyEmbeddingBaseURL),
			APIKey:     store.GetString(KeyEmbeddingAPIKey),
			Dimensions: store.GetInt(KeyEmbeddingDimensions),
			Timeout:    time.Duration(store.GetInt(KeyEmbeddingTimeout)) * time.Second,
		},
		LLM: domain.LLMSettings{
			Provider:          domain.AIProvider(store.GetString(KeyLLMProvider)),
			Model:             store.GetString(KeyLLMModel),
			BaseURL:           store.GetString(KeyLLMBaseURL),
			APIKey:            store.GetString(KeyLLMAPIKey),
			Timeout:           time.Duration(store.GetInt(KeyLLMTimeout)) * time.Second,
			RequestsPerMinute: store.GetInt(KeyLLMRequestsPerMinute),
		},
	}

	if settings.Retrieval.TopK == 0 {
		settings.Retrieval.TopK = domain.DefaultTopK
	}
	if key := os.Getenv(EnvLLMAPIKey); key != "" {
		settings.LLM.APIKey = key
	}
	if key := os.Getenv(EnvEmbeddingAPIKey); key != "" {
		settings.Embedding.APIKey = key
	}
	return settings
}

// SaveLLMSettings persists the LLM section of the configuration.
func SaveLLMSettings(store driven.ConfigStore, s domain.LLMSettings) error {
	pairs := map[string]any{
		KeyLLMProvider:          s.Provider.String(),
		KeyLLMModel:             s.Model,
		KeyLLMBaseURL:           s.BaseURL,
		KeyLLMAPIKey:            s.APIKey,
		KeyLLMTimeout:           int(s.Timeout / time.Second),
		KeyLLMRequestsPerMinute: s.RequestsPerMinute,
	}
	for key, val := range pairs {
		if err := store.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}

// SaveEmbeddingSettings persists the embedding section of the configuration.
func SaveEmbeddingSettings(store driven.ConfigStore, s domain.EmbeddingSettings) error {
	pairs := map[string]any{
		KeyEmbeddingProvider:   s.Provider.String(),
		KeyEmbeddingModel:      s.Model,
		KeyEmbeddingBaseURL:    s.BaseURL,
		KeyEmbeddingAPIKey:     s.APIKey,
		KeyEmbeddingDimensions: s.Dimensions,
		KeyEmbeddingTimeout:    int(s.Timeout / time.Second),
	}
	for key, val := range pairs {
		if err := store.Set(key, val); err != nil {
			return err
		}
	}
	return nil
}
