package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var retrieveTopK int

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Show the chunks that would be used to answer a question",
	Long: `Run retrieval without calling the language model and print the ranked
chunks. Useful for checking what context a question would receive.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveTopK, "top-k", "k", 0, "number of chunks to return (0 uses the default)")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if retrievalService == nil {
		return fmt.Errorf("retrieval service not available")
	}

	query := strings.Join(args, " ")
	results, err := retrievalService.Retrieve(cmd.Context(), query, retrieveTopK)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Println("No matching chunks.")
		return nil
	}

	out := cmd.OutOrStdout()
	for i, result := range results {
		color.New(color.Bold).Fprintf(out, "%d. %s (page %d, score %.4f)\n",
			i+1, result.Chunk.Source, result.Chunk.Page, result.Score)
		cmd.Printf("%s\n\n", result.Chunk.Content)
	}
	return nil
}
