// Package effect turns the beat clock into visual cues, such as a colour that flashes on every
// beat and fades until the next one.
package effect

import (
	"fmt"

	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/robmorgan/conductor/utils"
)

// ShapeFunc maps a phase in [0, 1) to a level in [0, 1].
type ShapeFunc func(phase float64) float64

// DecayShape peaks at the start of the phase and falls off with an InQuart curve.
func DecayShape(phase float64) float64 {
	return ease.InQuart(1 - utils.Clamp01(phase))
}

// Pulse blends between a resting colour and an accent colour following the beat.
type Pulse struct {
	Rest     colorful.Color
	Beat     colorful.Color
	DownBeat colorful.Color

	Shape ShapeFunc
}

// NewPulse creates a pulse with the default palette.
func NewPulse() *Pulse {
	return &Pulse{
		Rest:     mustHex("#1d1f33"),
		Beat:     mustHex("#3fa7ff"),
		DownBeat: mustHex("#ff3f7a"),
		Shape:    DecayShape,
	}
}

// Level returns the pulse intensity at the snapshot.
func (p *Pulse) Level(snap rhythm.Snapshot) float64 {
	shape := p.Shape
	if shape == nil {
		shape = DecayShape
	}
	return utils.Clamp01(shape(snap.FractionSinceBeat()))
}

// Color returns the pulse colour at the snapshot. Down beats use the DownBeat accent.
func (p *Pulse) Color(snap rhythm.Snapshot) colorful.Color {
	accent := p.Beat
	if snap.IsDownBeat() {
		accent = p.DownBeat
	}
	return p.Rest.BlendLab(accent, p.Level(snap)).Clamped()
}

// TermString wraps text in a 24-bit ANSI foreground colour escape.
func TermString(c colorful.Color, text string) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s\x1b[0m", r, g, b, text)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
