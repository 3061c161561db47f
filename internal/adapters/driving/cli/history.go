package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	historySessionID string
	historyLimit     int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show conversation history for a session",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historySessionID, "session", "s", "", "conversation session id")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "maximum turns to show (0 uses the default)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if chatService == nil {
		return fmt.Errorf("chat service not available")
	}

	messages, err := chatService.History(cmd.Context(), historySessionID, historyLimit)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		cmd.Println("No history for this session.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, msg := range messages {
		color.New(color.Bold).Fprintf(out, "Q: %s\n", msg.Question)
		cmd.Printf("A: %s\n", msg.Answer)
		color.New(color.FgHiBlack).Fprintf(out, "   %s\n\n", msg.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
