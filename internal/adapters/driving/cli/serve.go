package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serve the docchat HTTP API. The server exposes upload, chat, document
management and history endpoints under /api and shuts down gracefully on
SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	server, err := httpapi.NewServer(serveAddr, &httpapi.Ports{
		Ingest:   ingestService,
		Chat:     chatService,
		Document: documentService,
	})
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("docchat API listening on %s\n", serveAddr)
	return server.Run(ctx)
}
