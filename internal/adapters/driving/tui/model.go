// Package tui provides the interactive chat terminal UI.
// Questions are sent to the chat service asynchronously so the interface
// stays responsive while the model generates an answer.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/core/ports/driving"
)

// turn is one question/answer pair shown in the transcript.
type turn struct {
	question string
	answer   string
	sources  []string
	pending  bool
	failed   bool
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	answer *domain.Answer
}

// errMsg carries a failed ask back into the update loop.
type errMsg struct {
	err error
}

// Model is the Bubble Tea model for the chat session.
type Model struct {
	chat      driving.ChatService
	ctx       context.Context
	sessionID string

	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	waiting  bool
	ready    bool
}

// New creates a new chat TUI model.
func New(chat driving.ChatService, sessionID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your documents"
	ti.Focus()
	ti.CharLimit = 0

	vp := viewport.New(0, 0)

	return Model{
		chat:      chat,
		ctx:       context.Background(),
		sessionID: sessionID,
		input:     ti,
		viewport:  vp,
		status:    "Ready. Type a question and press Enter. Esc or Ctrl+C to quit.",
	}
}

// WithContext sets the context used for chat calls.
func (m Model) WithContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // header, input frame, status
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.input.Width = maxInt(20, msg.Width-4)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.turns = append(m.turns, turn{question: question, pending: true})
			m.waiting = true
			m.status = "Thinking..."
			m.input.Reset()
			m.refreshTranscript()
			return m, m.ask(question)
		}

	case answerMsg:
		m.waiting = false
		m.status = "Ready."
		last := len(m.turns) - 1
		if last >= 0 {
			m.turns[last].pending = false
			m.turns[last].answer = msg.answer.Text
			m.turns[last].sources = msg.answer.Sources
		}
		m.refreshTranscript()
		return m, nil

	case errMsg:
		m.waiting = false
		m.status = "Error: " + msg.err.Error()
		last := len(m.turns) - 1
		if last >= 0 {
			m.turns[last].pending = false
			m.turns[last].failed = true
			m.turns[last].answer = msg.err.Error()
		}
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docchat")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// ask returns a command that asks the chat service off the update loop.
func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.chat.Ask(m.ctx, question, m.sessionID)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{answer: answer}
	}
}

func (m *Model) refreshTranscript() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return emptyStyle.Render("No questions yet. Upload documents with 'docchat upload', then ask away.")
	}

	var b strings.Builder
	for i := range m.turns {
		t := m.turns[i]
		b.WriteString(questionStyle.Render("You: "+t.question) + "\n")
		switch {
		case t.pending:
			b.WriteString(pendingStyle.Render("...") + "\n")
		case t.failed:
			b.WriteString(errorStyle.Render(t.answer) + "\n")
		default:
			b.WriteString(answerStyle.Render(t.answer) + "\n")
			if len(t.sources) > 0 {
				b.WriteString(sourceStyle.Render("Sources: "+strings.Join(t.sources, ", ")) + "\n")
			}
		}
		if i < len(m.turns)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle     = lipgloss.NewStyle()
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	pendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	emptyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
