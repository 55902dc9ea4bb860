package lighting

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/conductor/utils"
)

// Fixture is a patched light.
type Fixture struct {
	Name     string `mapstructure:"name"`
	Universe int    `mapstructure:"universe"`

	// Address is the DMX start address, starting at 1.
	Address int `mapstructure:"address"`

	// Profile is a key of Profiles.
	Profile string `mapstructure:"profile"`
}

// Validate checks the fixture's profile exists and every channel fits in the universe.
func (f Fixture) Validate() error {
	p, ok := Profiles()[f.Profile]
	if !ok {
		return fmt.Errorf("fixture %q: unknown profile %q", f.Name, f.Profile)
	}
	if f.Universe < 0 {
		return fmt.Errorf("fixture %q: universe %d is negative", f.Name, f.Universe)
	}
	for _, offset := range p.Channels {
		if ch := f.Address + offset - 1; ch < 1 || ch > UniverseSize {
			return fmt.Errorf("fixture %q: channel %d not in range", f.Name, ch)
		}
	}
	return nil
}

// colorOperations returns the DMX writes that show c at the given intensity. Fixtures without
// an intensity channel get the intensity folded into the colour channels.
func (f Fixture) colorOperations(c colorful.Color, intensity float64) []dmxOperation {
	p := Profiles()[f.Profile]
	intensity = utils.Clamp01(intensity)

	scale := 1.0
	if _, ok := p.Channels[ChannelTypeIntensity]; !ok {
		scale = intensity
	}

	values := map[string]float64{
		ChannelTypeIntensity: intensity,
		ChannelTypeRed:       c.R * scale,
		ChannelTypeGreen:     c.G * scale,
		ChannelTypeBlue:      c.B * scale,
	}

	ops := make([]dmxOperation, 0, len(values))
	for typ, v := range values {
		offset, ok := p.Channels[typ]
		if !ok {
			continue
		}
		ops = append(ops, dmxOperation{
			universe: f.Universe,
			channel:  f.Address + offset - 1,
			value:    toDMX(v),
		})
	}
	return ops
}

func toDMX(v float64) int {
	return int(utils.Clamp01(v)*255 + 0.5)
}
