package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/robmorgan/conductor/conductor"
	"github.com/robmorgan/conductor/device"
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func newTestConductor(t *testing.T) (*conductor.Conductor, *testingclock.FakeClock, time.Time) {
	t.Helper()

	origin := time.Unix(1_700_000_000, 0)
	fc := testingclock.NewFakeClock(origin)
	dev := device.NewVirtual(fc, 60)

	c, err := conductor.New(conductor.Options{
		BPM:       120,
		BarLength: 4,
		Frames: []music.Frame{
			{Name: "Menu", IntroStart: 0, LoopStart: 10, LoopEnd: 20},
			{Name: "Level", IntroStart: 20, LoopStart: 25, LoopEnd: 35},
		},
		EndFrame: music.Frame{Name: "Death", IntroStart: 40, LoopStart: 40, LoopEnd: 50, TransitionImmediately: true},
	}, dev)
	require.NoError(t, err)
	return c, fc, origin
}

func TestHandleCommand(t *testing.T) {
	t.Parallel()

	c, fc, origin := newTestConductor(t)
	var out bytes.Buffer

	done, err := handleCommand(c, "  ", &out)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = handleCommand(c, "v 0.3", &out)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, c.Volume(), 1e-9)
	assert.Contains(t, out.String(), "volume 0.30")

	_, err = handleCommand(c, "v loud", &out)
	assert.Error(t, err)
	_, err = handleCommand(c, "v nan", &out)
	assert.Error(t, err)
	assert.InDelta(t, 0.3, c.Volume(), 1e-9)
	_, err = handleCommand(c, "v", &out)
	assert.Error(t, err)
	_, err = handleCommand(c, "dance", &out)
	assert.Error(t, err)

	fc.SetTime(origin.Add(2750 * time.Millisecond))
	_, err = handleCommand(c, "t", &out)
	require.NoError(t, err)
	require.NoError(t, c.Tick())
	assert.Equal(t, "Level", c.CurrentFrame().Name)

	out.Reset()
	_, err = handleCommand(c, "status", &out)
	require.NoError(t, err)
	assert.Equal(t, "Level at 2.1, 0 frames left\n", out.String())

	_, err = handleCommand(c, "d", &out)
	require.NoError(t, err)
	require.NoError(t, c.Tick())
	assert.Equal(t, "Death", c.CurrentFrame().Name)

	done, err = handleCommand(c, "Q", &out)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestReadLines(t *testing.T) {
	t.Parallel()

	var got []string
	for line := range readLines(strings.NewReader("t\n  v 0.5 \nq\n")) {
		got = append(got, line)
	}
	assert.Equal(t, []string{"t", "v 0.5", "q"}, got)
}

func TestStatusPrinter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := newStatusPrinter(&out, effect.NewPulse())
	frame := music.Frame{Name: "Level"}
	snap := func(instant float64) rhythm.Snapshot {
		return rhythm.Snapshot{Instant: instant, Offset: 0, Tempo: 2, BeatsPerBar: 4}
	}

	p.Observe(snap(-1), frame)
	p.Observe(snap(0), frame)
	p.Observe(snap(0.5), frame)
	p.Observe(snap(2.1), frame)
	p.Observe(snap(2.2), music.Frame{Name: "Boss"})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1.1")
	assert.Contains(t, lines[1], "2.1")
	assert.Contains(t, lines[2], "Boss")
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "conductor version dev")
}

func TestObserverInterface(t *testing.T) {
	t.Parallel()

	var _ conductor.Observer = newStatusPrinter(&bytes.Buffer{}, effect.NewPulse())
}
