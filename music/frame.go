package music

import (
	"fmt"
	"math"

	"github.com/gruntwork-io/go-commons/errors"
)

// Frame is one playable song segment inside the music buffer. Offsets are in seconds.
// A frame plays its intro once, starting at IntroStart, and then repeats the region
// between LoopStart and LoopEnd until the next transition.
type Frame struct {
	// Name of the segment, used for logging
	Name string `mapstructure:"name"`

	IntroStart float64 `mapstructure:"intro_start"`
	LoopStart  float64 `mapstructure:"loop_start"`
	LoopEnd    float64 `mapstructure:"loop_end"`

	// TransitionImmediately frames start on the next beat instead of the next bar and reset
	// beat 0 to their start time.
	TransitionImmediately bool `mapstructure:"transition_immediately"`
}

// NewFrame creates a validated frame.
func NewFrame(name string, introStart, loopStart, loopEnd float64, immediate bool) (Frame, error) {
	f := Frame{
		Name:                  name,
		IntroStart:            introStart,
		LoopStart:             loopStart,
		LoopEnd:               loopEnd,
		TransitionImmediately: immediate,
	}
	if err := f.Validate(math.Inf(1)); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// Validate checks the offset ordering against a buffer of the given duration in seconds.
func (f Frame) Validate(duration float64) error {
	for _, v := range []float64{f.IntroStart, f.LoopStart, f.LoopEnd} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.WithStackTraceAndPrefix(ErrMalformedFrame, "frame %q has a non-finite offset", f.Name)
		}
	}

	switch {
	case f.IntroStart < 0:
		return errors.WithStackTraceAndPrefix(ErrMalformedFrame, "frame %q intro start %.3f is negative", f.Name, f.IntroStart)
	case f.IntroStart > f.LoopStart:
		return errors.WithStackTraceAndPrefix(ErrMalformedFrame, "frame %q intro start %.3f is after loop start %.3f", f.Name, f.IntroStart, f.LoopStart)
	case f.LoopStart >= f.LoopEnd:
		return errors.WithStackTraceAndPrefix(ErrMalformedFrame, "frame %q loop start %.3f is not before loop end %.3f", f.Name, f.LoopStart, f.LoopEnd)
	case f.LoopEnd > duration:
		return errors.WithStackTraceAndPrefix(ErrMalformedFrame, "frame %q loop end %.3f is past the end of the buffer (%.3f)", f.Name, f.LoopEnd, duration)
	}

	return nil
}

// IntroLength returns the seconds between the intro start and the loop start.
func (f Frame) IntroLength() float64 {
	return f.LoopStart - f.IntroStart
}

// LoopLength returns the length of the loop region in seconds.
func (f Frame) LoopLength() float64 {
	return f.LoopEnd - f.LoopStart
}

func (f Frame) String() string {
	return fmt.Sprintf("%s [%.3f > %.3f..%.3f]", f.Name, f.IntroStart, f.LoopStart, f.LoopEnd)
}
