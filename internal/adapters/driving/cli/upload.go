package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Ingest PDF files into the knowledge base",
	Long: `Ingest one or more PDF files. Each file is extracted, cleaned, split
into chunks and stored. When an embedding provider is configured the chunks
are embedded for semantic retrieval as well.

Uploading a file with the same name replaces the previous version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return fmt.Errorf("ingest service not available")
	}

	var failed int
	for _, path := range args {
		if err := uploadOne(cmd, path); err != nil {
			failed++
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", filepath.Base(path), err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func uploadOne(cmd *cobra.Command, path string) error {
	if !isPDF(path) {
		return fmt.Errorf("only PDF files are supported")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	report, err := ingestService.Ingest(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if report.Replaced {
		color.New(color.FgYellow).Fprintf(out, "↻ %s replaced\n", filepath.Base(path))
	} else {
		color.New(color.FgGreen).Fprintf(out, "✓ %s\n", filepath.Base(path))
	}
	cmd.Printf("  id: %s\n", report.DocumentID)
	cmd.Printf("  pages: %d  chunks: %d", report.PagesProcessed, report.ChunksCreated)
	if report.ChunksEmbedded > 0 {
		cmd.Printf("  embedded: %d", report.ChunksEmbedded)
	}
	cmd.Printf("\n")
	return nil
}
