package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/events"
)

const defaultWidth = 80

type sessionEventMsg struct{ event events.Event }

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		return sessionEventMsg{event: <-ch}
	}
}

type chatModel struct {
	session *orchestration.DialogueSession
	events  <-chan events.Event

	input   textinput.Model
	spinner spinner.Model
	width   int
}

func newChatModel(session *orchestration.DialogueSession, ch <-chan events.Event) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about hours, departments, deals or orders"
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	return chatModel{
		session: session,
		events:  ch,
		input:   input,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(mutedStyle)),
		width:   defaultWidth,
	}
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case sessionEventMsg:
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+l":
			m.session.ClearHistory()
			return m, nil
		case "enter":
			m.session.Submit(m.input.Value())
			m.input.Reset()
			return m, nil
		}

		// Digits on an empty prompt pick a suggestion.
		if m.input.Value() == "" && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			if err := m.session.Suggest(int(msg.Runes[0] - '1')); err == nil {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("FreshMart assistant"))
	b.WriteString("\n")

	wrap := max(m.width-4, 20)
	for _, turn := range m.session.History() {
		label := assistantStyle.Render("Assistant")
		if turn.Speaker == orchestration.SpeakerUser {
			label = userStyle.Render("You")
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(wordwrap.String(turn.Text, wrap))
		b.WriteString("\n\n")
	}

	if m.session.Composing() {
		b.WriteString(m.spinner.View())
		b.WriteString(mutedStyle.Render(" typing..."))
		b.WriteString("\n\n")
	}

	chips := make([]string, 0, len(orchestration.Suggestions))
	for i, suggestion := range orchestration.Suggestions {
		chips = append(chips, chipStyle.Render(fmt.Sprintf("%d %s", i+1, suggestion)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enter send · 1-5 suggestion · ctrl+l clear · esc quit"))
	return b.String()
}
