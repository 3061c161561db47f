package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asfc-labs/docchat/internal/core/domain"
)

type stubChatService struct {
	answer *domain.Answer
	err    error

	gotQuestion  string
	gotSessionID string
}

func (s *stubChatService) Ask(_ context.Context, question, sessionID string) (*domain.Answer, error) {
	s.gotQuestion = question
	s.gotSessionID = sessionID
	return s.answer, s.err
}

func (s *stubChatService) History(_ context.Context, _ string, _ int) ([]domain.ChatMessage, error) {
	return nil, nil
}

func typeString(m Model, s string) Model {
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func pressEnter(m Model) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func TestModel_AskFlow(t *testing.T) {
	chat := &stubChatService{
		answer: &domain.Answer{
			Text:    "Expenses are reimbursed monthly. (handbook.pdf, p. 3)",
			Sources: []string{"handbook.pdf"},
		},
	}
	m := New(chat, "default")

	m = typeString(m, "what about expenses?")
	m, cmd := pressEnter(m)

	require.NotNil(t, cmd)
	require.Len(t, m.turns, 1)
	assert.True(t, m.turns[0].pending)
	assert.True(t, m.waiting)
	assert.Equal(t, "what about expenses?", m.turns[0].question)

	// Run the command and feed its message back, as the runtime would.
	msg := cmd()
	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "what about expenses?", chat.gotQuestion)
	assert.Equal(t, "default", chat.gotSessionID)

	updated, _ := m.Update(answer)
	m = updated.(Model)

	require.Len(t, m.turns, 1)
	assert.False(t, m.turns[0].pending)
	assert.False(t, m.waiting)
	assert.Contains(t, m.turns[0].answer, "reimbursed monthly")
	assert.Equal(t, []string{"handbook.pdf"}, m.turns[0].sources)
}

func TestModel_AskFailure(t *testing.T) {
	chat := &stubChatService{err: errors.New("model unreachable")}
	m := New(chat, "default")

	m = typeString(m, "hello")
	m, cmd := pressEnter(m)
	require.NotNil(t, cmd)

	msg := cmd()
	failure, ok := msg.(errMsg)
	require.True(t, ok)

	updated, _ := m.Update(failure)
	m = updated.(Model)

	require.Len(t, m.turns, 1)
	assert.True(t, m.turns[0].failed)
	assert.False(t, m.waiting)
	assert.Contains(t, m.status, "model unreachable")
}

func TestModel_EmptyInputIsIgnored(t *testing.T) {
	m := New(&stubChatService{}, "default")

	m, cmd := pressEnter(m)

	assert.Nil(t, cmd)
	assert.Empty(t, m.turns)
	assert.False(t, m.waiting)
}

func TestModel_IgnoresEnterWhileWaiting(t *testing.T) {
	m := New(&stubChatService{answer: &domain.Answer{Text: "a"}}, "default")

	m = typeString(m, "first")
	m, cmd := pressEnter(m)
	require.NotNil(t, cmd)

	m = typeString(m, "second")
	m, cmd = pressEnter(m)

	assert.Nil(t, cmd)
	assert.Len(t, m.turns, 1)
}

func TestModel_QuitKeys(t *testing.T) {
	m := New(&stubChatService{}, "default")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewBeforeReady(t *testing.T) {
	m := New(&stubChatService{}, "default")
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_WindowSizeMakesReady(t *testing.T) {
	m := New(&stubChatService{}, "default")

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "docchat")
}
