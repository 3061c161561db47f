package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/adapters/driving/mcp"
)

var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server",
	Long: `Expose the knowledge base over the Model Context Protocol so MCP
clients can ask questions and browse documents.

By default the server speaks over stdio, which is what most MCP client
configurations expect:

  {"command": "docchat", "args": ["mcp"]}

With --http the server listens on the given address using the streamable
HTTP transport instead.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "serve over streamable HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Chat:      chatService,
		Retrieval: retrievalService,
		Document:  documentService,
	})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mcpHTTPAddr != "" {
		cmd.Printf("docchat MCP listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(ctx, mcpHTTPAddr)
	}
	return server.Run(ctx)
}
