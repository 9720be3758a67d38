package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Toast lifetime matches the original UI's 3.6s auto-dismiss.
const flashDuration = 3600 * time.Millisecond

// flashOK and flashError set the one-line notification. The sequence number
// makes the auto-clear timer of a superseded toast harmless.
func (m *appModel) flashOK(text string) tea.Cmd {
	return m.setFlash(text, false)
}

func (m *appModel) flashError(text string) tea.Cmd {
	return m.setFlash(text, true)
}

func (m *appModel) setFlash(text string, isErr bool) tea.Cmd {
	m.flash = text
	m.flashIsErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashDoneMsg{seq: seq}
	})
}

func (m appModel) viewFlash() string {
	color := colorOKFg
	if m.flashIsErr {
		color = colorDangerFg
	}
	return lipgloss.NewStyle().Foreground(color).Render(m.flash)
}
