package rhythm

import (
	"fmt"
	"math"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/utils"
)

// Snapshot is the metronome timeline probed at one audio-clock instant. Every value derived
// from a snapshot comes from the same clock sample, so beat, phase and offset always agree.
type Snapshot struct {
	// Instant is the audio-clock time the snapshot was taken at.
	Instant float64

	// Offset is the audio-clock time of beat 0.
	Offset float64

	// Tempo is in beats per second.
	Tempo float64

	BeatsPerBar int
}

// ScaledBeatTime returns the fractional number of beats elapsed since beat 0.
func (s Snapshot) ScaledBeatTime() float64 {
	return scaledBeatTime(s.Instant, s.Offset, s.Tempo)
}

// BeatIndex returns the index of the last beat (or sub-beat) that has occurred.
// A subdivision of 2 yields half-beat resolution.
func (s Snapshot) BeatIndex(subdivision int) (int, error) {
	if subdivision < 1 {
		return 0, errors.WithStackTraceAndPrefix(ErrInvalidSubdivision, "subdivision %d", subdivision)
	}
	return markerNumber(s.ScaledBeatTime() * float64(subdivision)), nil
}

// GetBeat returns the index of the last whole beat.
func (s Snapshot) GetBeat() int {
	return markerNumber(s.ScaledBeatTime())
}

// GetBar returns the index of the current bar.
func (s Snapshot) GetBar() int {
	return int(math.Floor(float64(s.GetBeat()) / float64(s.BeatsPerBar)))
}

// GetBeatWithinBar returns the beat number relative to the start of its bar, starting at 0.
func (s Snapshot) GetBeatWithinBar() int {
	return utils.FloorMod(s.GetBeat(), s.BeatsPerBar)
}

// IsDownBeat reports whether the current beat is the first beat of its bar.
func (s Snapshot) IsDownBeat() bool {
	return s.GetBeatWithinBar() == 0
}

// FractionSinceBeat returns how far through the current beat the snapshot is, in [0, 1).
func (s Snapshot) FractionSinceBeat() float64 {
	return markerPhase(s.ScaledBeatTime())
}

// OffsetToNearestBeat returns the signed distance to the closest beat in beats, in [-0.5, 0.5).
func (s Snapshot) OffsetToNearestBeat() float64 {
	beats := s.ScaledBeatTime()
	return beats - math.Floor(beats+0.5)
}

// GetBeatInterval returns the length of one beat in seconds.
func (s Snapshot) GetBeatInterval() float64 {
	return 1.0 / s.Tempo
}

// GetBarInterval returns the length of one bar in seconds.
func (s Snapshot) GetBarInterval() float64 {
	return float64(s.BeatsPerBar) / s.Tempo
}

// TimeToNextBeat returns the seconds remaining until the next beat.
func (s Snapshot) TimeToNextBeat() float64 {
	interval := s.GetBeatInterval()
	return interval - s.FractionSinceBeat()*interval
}

// GetTimeOfBeat determines the audio-clock time at which a particular beat occurs.
func (s Snapshot) GetTimeOfBeat(beat int) float64 {
	return s.Offset + float64(beat)/s.Tempo
}

// GetMarker returns the time represented by the snapshot as "bar.beat", both counted from 1.
func (s Snapshot) GetMarker() string {
	return fmt.Sprintf("%d.%d", s.GetBar()+1, s.GetBeatWithinBar()+1)
}
