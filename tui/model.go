// Package tui is the terminal front end of the play command: it shows the current frame and
// the beat, and maps keys to conductor requests.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/conductor/conductor"
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
)

// RefreshRate is how often the view samples the conductor.
const RefreshRate = 25 * time.Millisecond

// volumeStep is the change applied by the volume keys.
const volumeStep = 0.1

// Conductor is the part of *conductor.Conductor the view needs.
type Conductor interface {
	Snapshot() (rhythm.Snapshot, error)
	CurrentFrame() music.Frame
	Position() float64
	Remaining() int
	Post(r conductor.Request) error
	SetVolume(level float64)
	Volume() float64
}

type model struct {
	conductor Conductor
	pulse     *effect.Pulse
	spinner   spinner.Model
	progress  progress.Model

	snap     rhythm.Snapshot
	frame    music.Frame
	position float64
	err      error
	status   string
	quitting bool
}

func newModel(c Conductor, pulse *effect.Pulse) model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	return model{
		conductor: c,
		pulse:     pulse,
		spinner:   s,
		progress:  p,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spinner.Tick)
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run shows the view until the user quits.
func Run(c Conductor, pulse *effect.Pulse) error {
	_, err := tea.NewProgram(newModel(c, pulse)).Run()
	return err
}
