package cli

import (
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/asfc-labs/docchat/internal/adapters/driving/tui"
	"github.com/asfc-labs/docchat/internal/logger"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Open a terminal chat with the knowledge base. Each question is answered
from the ingested documents and appended to the session history. Press
Esc or Ctrl+C to leave.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatSessionID, "session", "s", "", "conversation session id (defaults to a new session)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	if err := ensureServices(); err != nil {
		return err
	}
	if chatService == nil {
		return fmt.Errorf("chat service not available")
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("chat panicked: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("chat crashed: %v", r)
		}
	}()

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	model := tui.New(chatService, sessionID).WithContext(cmd.Context())
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
