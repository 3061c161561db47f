package mcp

import (
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers questions against the document library.
	Chat driving.ChatService

	// Retrieval exposes raw context retrieval without model generation.
	Retrieval driving.RetrievalService

	// Document manages uploaded documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	// Retrieval and Document are optional
	return nil
}
