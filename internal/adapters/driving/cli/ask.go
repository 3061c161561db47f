package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question against the knowledge base",
	Long: `Ask one question and print the answer with its sources. The turn is
recorded in conversation history, so a follow-up ask in the same session
sees the earlier exchange. Use 'docchat chat' for an interactive session.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSessionID, "session", "s", "", "conversation session id")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if chatService == nil {
		return fmt.Errorf("chat service not available")
	}

	question := strings.Join(args, " ")
	answer, err := chatService.Ask(cmd.Context(), question, askSessionID)
	if err != nil {
		return err
	}

	cmd.Printf("%s\n", answer.Text)
	if len(answer.Sources) > 0 {
		color.New(color.FgHiBlack).Fprintf(cmd.OutOrStdout(), "\nSources: %s\n", strings.Join(answer.Sources, ", "))
	}
	return nil
}
