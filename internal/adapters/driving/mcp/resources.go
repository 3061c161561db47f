package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docchat resources.
	uriScheme = "docchat://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing documents.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "List of all uploaded documents",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for individual document details.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-details",
		Description: "Details of a specific uploaded document",
		MIMEType:    "application/json",
	}, s.handleDocumentDetailsResource)
}

// handleDocumentsResource returns a list of all uploaded documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	// Build simplified document list.
	type docInfo struct {
		ID         string `json:"id"`
		Filename   string `json:"filename"`
		Status     string `json:"status"`
		PageCount  int    `json:"page_count"`
		ChunkCount int    `json:"chunk_count"`
	}

	infos := make([]docInfo, len(docs))
	for i := range docs {
		infos[i] = docInfo{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			Status:     string(docs[i].Status),
			PageCount:  docs[i].PageCount,
			ChunkCount: docs[i].ChunkCount,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentDetailsResource returns the details of a specific document.
func (s *Server) handleDocumentDetailsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: docchat://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Document.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	type docDetails struct {
		ID         string   `json:"id"`
		Filename   string   `json:"filename"`
		Status     string   `json:"status"`
		FailReason string   `json:"fail_reason,omitempty"`
		PageCount  int      `json:"page_count"`
		ChunkCount int      `json:"chunk_count"`
		FileSize   int64    `json:"file_size"`
		Title      string   `json:"title,omitempty"`
		Summary    string   `json:"summary,omitempty"`
		Topics     []string `json:"topics,omitempty"`
		UploadedAt string   `json:"uploaded_at"`
	}

	details := docDetails{
		ID:         doc.ID,
		Filename:   doc.Filename,
		Status:     string(doc.Status),
		FailReason: doc.FailReason,
		PageCount:  doc.PageCount,
		ChunkCount: doc.ChunkCount,
		FileSize:   doc.FileSize,
		Title:      doc.Metadata.Title,
		Summary:    doc.Metadata.Summary,
		Topics:     doc.Metadata.Topics,
		UploadedAt: doc.UploadedAt.Format("2006-01-02 15:04:05"),
	}

	data, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling document: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like docchat://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
