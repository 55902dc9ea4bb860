package effect

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/stretchr/testify/assert"
)

func snapshotAt(instant float64) rhythm.Snapshot {
	return rhythm.Snapshot{Instant: instant, Offset: 0, Tempo: 2, BeatsPerBar: 4}
}

func TestDecayShape(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		phase    float64
		expected float64
	}{
		{0, 1},
		{0.5, 0.0625},
		{1, 0},
		{-1, 1},
		{2, 0},
	}

	for _, tc := range testCases {
		assert.InDelta(t, tc.expected, DecayShape(tc.phase), 1e-9, "phase=%v", tc.phase)
	}
}

func TestPulseFollowsBeat(t *testing.T) {
	t.Parallel()

	p := NewPulse()

	assert.InDelta(t, 1.0, p.Level(snapshotAt(0.5)), 1e-9)
	assert.Less(t, p.Level(snapshotAt(0.9)), p.Level(snapshotAt(0.6)))

	// On the beat the pulse is the accent colour, between beats it fades to rest.
	assert.True(t, p.Color(snapshotAt(0.5)).AlmostEqualRgb(p.Beat))
	assert.True(t, p.Color(snapshotAt(2.0)).AlmostEqualRgb(p.DownBeat))
	assert.Less(t, p.Color(snapshotAt(0.99)).DistanceLab(p.Rest), 0.01)
}

func TestPulseCustomShape(t *testing.T) {
	t.Parallel()

	p := &Pulse{
		Rest:     colorful.Color{R: 0, G: 0, B: 0},
		Beat:     colorful.Color{R: 1, G: 1, B: 1},
		DownBeat: colorful.Color{R: 1, G: 0, B: 0},
		Shape:    func(float64) float64 { return 2 },
	}
	assert.Equal(t, 1.0, p.Level(snapshotAt(0.7)))
}

func TestTermString(t *testing.T) {
	t.Parallel()

	s := TermString(colorful.Color{R: 1, G: 0, B: 0.5}, "1.1")
	assert.Equal(t, "\x1b[38;2;255;0;128m1.1\x1b[0m", s)
}
