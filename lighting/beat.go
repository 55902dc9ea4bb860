// Package lighting drives DMX fixtures through OLA so they flash with the music.
package lighting

import (
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
)

// BeatLights paints every fixture with the beat pulse. It implements conductor.Observer.
type BeatLights struct {
	fixtures []Fixture
	pulse    *effect.Pulse
	state    *DMXState
}

func NewBeatLights(fixtures []Fixture, pulse *effect.Pulse, state *DMXState) *BeatLights {
	return &BeatLights{fixtures: fixtures, pulse: pulse, state: state}
}

// Observe writes the pulse colour for the snapshot to the DMX state. Lights stay dark before beat 0.
func (b *BeatLights) Observe(snap rhythm.Snapshot, _ music.Frame) {
	color, level := b.pulse.Rest, 0.0
	if snap.ScaledBeatTime() >= 0 {
		color, level = b.pulse.Color(snap), b.pulse.Level(snap)
	}

	for _, f := range b.fixtures {
		if err := b.state.set(f.colorOperations(color, level)...); err != nil {
			logger.GetProjectLogger().WithField("fixture", f.Name).WithError(err).Warn("Cannot set fixture")
		}
	}
}
