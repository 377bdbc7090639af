package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/locales"
)

type voiceModel struct {
	ctx     context.Context
	session *orchestration.VoiceSession
	events  <-chan events.Event
	table   locales.Table

	spinner spinner.Model
	width   int
	lastErr error
}

func newVoiceModel(ctx context.Context, session *orchestration.VoiceSession, ch <-chan events.Event) voiceModel {
	return voiceModel{
		ctx:     ctx,
		session: session,
		events:  ch,
		table:   locales.DefaultTable(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(activeStyle)),
		width:   defaultWidth,
	}
}

func (m voiceModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

func (m voiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case sessionEventMsg:
		switch event := msg.event.(type) {
		case events.CaptureFailed:
			m.lastErr = event.Err
		case events.PlaybackFailed:
			m.lastErr = event.Err
		case events.ListeningStarted:
			m.lastErr = nil
		}
		return m, waitForEvent(m.events)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case " ":
			if m.session.State().Listening {
				m.session.Stop()
			} else {
				m.session.Start(m.ctx)
			}
		case "t":
			m.session.ToggleLocale()
		case "r":
			if response := m.session.State().Response; response != "" {
				m.session.Speak(response)
			}
		}
	}
	return m, nil
}

func (m voiceModel) View() string {
	state := m.session.State()
	wrap := max(m.width-4, 20)

	var b strings.Builder
	b.WriteString(titleStyle.Render("FreshMart voice assistant"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Language %s · voice %s\n\n", m.table.Tag(state.Locale), orNone(state.Voice))

	if state.Listening {
		b.WriteString(m.spinner.View())
		b.WriteString(activeStyle.Render(" listening"))
	} else {
		b.WriteString(mutedStyle.Render("not listening"))
	}
	if state.Speaking {
		b.WriteString(activeStyle.Render(" · speaking"))
	}
	b.WriteString("\n\n")

	b.WriteString(userStyle.Render("You said"))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(orNone(state.Transcript), wrap))
	b.WriteString("\n\n")
	b.WriteString(assistantStyle.Render("Assistant"))
	b.WriteString("\n")
	b.WriteString(wordwrap.String(orNone(state.Response), wrap))
	b.WriteString("\n\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(wordwrap.String(m.lastErr.Error(), wrap)))
		b.WriteString("\n\n")
	}
	b.WriteString(mutedStyle.Render("space listen · t switch language · r repeat · q quit"))
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
