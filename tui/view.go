package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/conductor/utils"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	appStyle   = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m model) View() string {
	var s strings.Builder

	fmt.Fprintf(&s, "%s %s\n", m.spinner.View(), titleStyle.Render(m.frame.Name))
	fmt.Fprintf(&s, "%s\n\n", m.progress.ViewAs(m.frameProgress()))

	if m.err != nil {
		s.WriteString(errStyle.Render(m.err.Error()) + "\n")
	} else if m.snap.ScaledBeatTime() >= 0 {
		color := m.pulse.Color(m.snap)
		beat := lipgloss.NewStyle().Foreground(lipgloss.Color(color.Hex())).Render(strings.Repeat("█", 8))
		fmt.Fprintf(&s, "%s  %s  %.1f BPM\n", beat, m.snap.GetMarker(), m.snap.Tempo*60)
	} else {
		s.WriteString("count-in\n")
	}

	fmt.Fprintf(&s, "\nFrames left: %d  Volume: %.0f%%\n", m.conductor.Remaining(), m.conductor.Volume()*100)
	if m.status != "" {
		s.WriteString(m.status + "\n")
	}

	s.WriteString(helpStyle.Render("(t) next frame  (d) end jingle  ([,]) volume -/+\n\nPress q to exit\n"))

	if m.quitting {
		s.WriteString("\n")
	}
	return appStyle.Render(s.String())
}

// frameProgress is how far playback is through the current frame, from intro start to loop end.
func (m model) frameProgress() float64 {
	span := m.frame.LoopEnd - m.frame.IntroStart
	if span <= 0 {
		return 0
	}
	return utils.Clamp01((m.position - m.frame.IntroStart) / span)
}
