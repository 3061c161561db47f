// Package cli wires the docchat services together and exposes them as
// cobra commands.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/adapters/driven/ai"
	configfile "github.com/asfc-labs/docchat/internal/adapters/driven/config/file"
	pdfextract "github.com/asfc-labs/docchat/internal/adapters/driven/extractor/pdf"
	"github.com/asfc-labs/docchat/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/asfc-labs/docchat/internal/adapters/driven/vector/memory"
	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driven"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
	"github.com/asfc-labs/docchat/internal/core/services"
	"github.com/asfc-labs/docchat/internal/logger"
	"github.com/asfc-labs/docchat/internal/postprocessors"
	"github.com/asfc-labs/docchat/internal/postprocessors/chunker"
	"github.com/asfc-labs/docchat/internal/postprocessors/cleaner"
)

// version is the docchat version, overridable at build time.
var version = "0.1.0"

// Wired services, initialised lazily by ensureServices.
var (
	configStore      *configfile.ConfigStore
	settings         domain.Settings
	store            *sqlite.Store
	vectorIndex      *vectormem.Index
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService

	ingestService    driving.IngestService
	chatService      driving.ChatService
	retrievalService driving.RetrievalService
	documentService  driving.DocumentService
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your PDF documents",
	Long: `docchat ingests PDF documents into a local knowledge base and answers
questions about them using a configured language model, citing the source
file and page for every claim.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

var (
	initOnce sync.Once
	initErr  error
)

// ensureServices wires the full service graph on first use. Commands that
// need only configuration call ensureConfigStore instead.
func ensureServices() error {
	initOnce.Do(func() {
		initErr = initServices()
	})
	return initErr
}

func initServices() error {
	if err := ensureConfigStore(); err != nil {
		return err
	}
	settings = configfile.LoadSettings(configStore)

	var err error
	store, err = sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	vectorIndex = vectormem.New()
	if err := vectorIndex.Load(context.Background(), store.DocumentStore()); err != nil {
		logger.Warn("warming vector index: %v", err)
	}

	// AI services are optional; without them ingestion stores lexical-only
	// chunks and asking questions reports the model as unavailable.
	embeddingService, err = ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		logger.Warn("embedding service: %v", err)
		embeddingService = nil
	}
	llmService, err = ai.CreateLLMService(settings.LLM)
	if err != nil {
		logger.Warn("LLM service: %v", err)
		llmService = nil
	}

	pipeline := postprocessors.NewPipeline(
		cleaner.New(),
		chunker.FromSettings(settings.Chunking),
	)

	ingestService = services.NewIngestOrchestrator(
		pdfextract.New(),
		pipeline,
		store.DocumentStore(),
		vectorIndex,
		embeddingService,
		llmService,
	)

	retrievalService = services.NewRetrieverService(
		store.DocumentStore(),
		store.SearchEngine(),
		vectorIndex,
		embeddingService,
		settings.Retrieval.Semantic,
	)

	composer := services.NewAnswerComposer(llmService, settings.LLM.Timeout)
	chatService = services.NewChatService(retrievalService, composer, store.MessageStore(), settings.Retrieval)
	documentService = services.NewDocumentService(store.DocumentStore(), vectorIndex)

	return nil
}

// ensureConfigStore opens the config store without wiring the rest.
func ensureConfigStore() error {
	if configStore != nil {
		return nil
	}
	cs, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	configStore = cs
	return nil
}

func closeServices() {
	if embeddingService != nil {
		embeddingService.Close() //nolint:errcheck
	}
	if llmService != nil {
		llmService.Close() //nolint:errcheck
	}
	if vectorIndex != nil {
		vectorIndex.Close() //nolint:errcheck
	}
	if store != nil {
		store.Close() //nolint:errcheck
	}
}
