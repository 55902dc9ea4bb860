package tui

import (
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/conductor/conductor"
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/robmorgan/conductor/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConductor struct {
	mu       sync.Mutex
	requests []conductor.Request
	volume   float64
	instant  float64
}

func (f *fakeConductor) Snapshot() (rhythm.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return rhythm.Snapshot{Instant: f.instant, Offset: 0, Tempo: 2, BeatsPerBar: 4}, nil
}

func (f *fakeConductor) CurrentFrame() music.Frame {
	return music.Frame{Name: "Level 1", IntroStart: 10, LoopStart: 20, LoopEnd: 30}
}

func (f *fakeConductor) Position() float64 { return 15 }

func (f *fakeConductor) Remaining() int { return 3 }

func (f *fakeConductor) Post(r conductor.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	return nil
}

func (f *fakeConductor) SetVolume(level float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = utils.Clamp01(level)
}

func (f *fakeConductor) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeysPostRequests(t *testing.T) {
	t.Parallel()

	c := &fakeConductor{volume: 0.5}
	var m tea.Model = newModel(c, effect.NewPulse())

	m, _ = m.Update(key("t"))
	m, _ = m.Update(key("d"))
	m, _ = m.Update(key("]"))

	require.Len(t, c.requests, 2)
	assert.Equal(t, conductor.RequestNextFrame, c.requests[0].Kind)
	assert.Equal(t, conductor.RequestEndJingle, c.requests[1].Kind)
	assert.Equal(t, "keyboard", c.requests[0].Source)
	assert.InDelta(t, 0.6, c.Volume(), 1e-9)

	m, _ = m.Update(key("["))
	m, _ = m.Update(key("["))
	assert.InDelta(t, 0.4, c.Volume(), 1e-9)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewShowsBeat(t *testing.T) {
	t.Parallel()

	c := &fakeConductor{volume: 1, instant: 2.75}
	var m tea.Model = newModel(c, effect.NewPulse())
	m, _ = m.Update(tickMsg(time.Now()))

	view := m.View()
	assert.Contains(t, view, "Level 1")
	assert.Contains(t, view, "2.2")
	assert.Contains(t, view, "120.0 BPM")
	assert.Contains(t, view, "Frames left: 3")
	assert.InDelta(t, 0.25, m.(model).frameProgress(), 1e-9)
}

func TestViewBeforeBeatZero(t *testing.T) {
	t.Parallel()

	c := &fakeConductor{volume: 1, instant: -0.3}
	var m tea.Model = newModel(c, effect.NewPulse())
	m, _ = m.Update(tickMsg(time.Now()))

	assert.Contains(t, m.View(), "count-in")
}
