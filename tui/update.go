package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/conductor/conductor"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "t", "n":
			m.post(conductor.RequestNextFrame)
		case "d":
			m.post(conductor.RequestEndJingle)
		case "[":
			m.conductor.SetVolume(m.conductor.Volume() - volumeStep)
			m.status = fmt.Sprintf("volume %.0f%%", m.conductor.Volume()*100)
		case "]":
			m.conductor.SetVolume(m.conductor.Volume() + volumeStep)
			m.status = fmt.Sprintf("volume %.0f%%", m.conductor.Volume()*100)
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m *model) post(kind conductor.RequestKind) {
	if err := m.conductor.Post(conductor.Request{Kind: kind, Source: "keyboard"}); err != nil {
		m.status = err.Error()
		return
	}
	m.status = "requested " + kind.String()
}

func (m *model) refresh() {
	m.frame = m.conductor.CurrentFrame()
	m.position = m.conductor.Position()
	m.snap, m.err = m.conductor.Snapshot()
}
