package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage ingested documents",
	RunE:  runDocumentsList,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all ingested documents",
	RunE:  runDocumentsList,
}

var documentsGetCmd = &cobra.Command{
	Use:   "get [document-id]",
	Short: "Show details for one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsGet,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

func init() {
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsGetCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if documentService == nil {
		return fmt.Errorf("document service not available")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No documents ingested. Run 'docchat upload <file.pdf>' to add one.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s  %s  %s  %d pages  %d chunks\n",
			doc.ID, statusLabel(doc.Status), doc.Filename, doc.PageCount, doc.ChunkCount)
	}
	cmd.Printf("\n%d document(s)\n", len(docs))
	return nil
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if documentService == nil {
		return fmt.Errorf("document service not available")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID:        %s\n", doc.ID)
	cmd.Printf("Filename:  %s\n", doc.Filename)
	cmd.Printf("Status:    %s\n", statusLabel(doc.Status))
	if doc.FailReason != "" {
		cmd.Printf("Reason:    %s\n", doc.FailReason)
	}
	cmd.Printf("Pages:     %d\n", doc.PageCount)
	cmd.Printf("Chunks:    %d\n", doc.ChunkCount)
	cmd.Printf("Size:      %d bytes\n", doc.FileSize)
	cmd.Printf("Uploaded:  %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	if doc.Metadata.Title != "" {
		cmd.Printf("Title:     %s\n", doc.Metadata.Title)
	}
	if doc.Metadata.Summary != "" {
		cmd.Printf("Summary:   %s\n", doc.Metadata.Summary)
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if documentService == nil {
		return fmt.Errorf("document service not available")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted %s\n", args[0])
	return nil
}

func statusLabel(status domain.DocumentStatus) string {
	switch status {
	case domain.StatusProcessed:
		return color.GreenString("processed")
	case domain.StatusFailed:
		return color.RedString("failed")
	default:
		return color.YellowString(string(status))
	}
}
