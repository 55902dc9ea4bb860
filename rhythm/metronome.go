package rhythm

import (
	"math"
	"sync"
)

// Metronome maps the audio clock onto musical time. It holds the audio-clock instant that
// corresponds to beat 0 (the offset), the tempo in beats per second and the bar length.
// Originally based on https://github.com/Deep-Symmetry/electro/blob/main/src/main/java/org/deepsymmetry/electro/Metronome.java#L449
type Metronome struct {
	mu          sync.RWMutex
	offset      float64
	tempo       float64
	beatsPerBar int
}

// NewMetronome creates a Metronome for the given BPM and bar length with beat 0 at offset.
func NewMetronome(bpm float64, beatsPerBar int, offset float64) (*Metronome, error) {
	if bpm <= 0 || math.IsNaN(bpm) || math.IsInf(bpm, 0) {
		return nil, ErrInvalidTempo
	}
	if beatsPerBar < 1 {
		return nil, ErrInvalidBarLength
	}

	return &Metronome{
		offset:      offset,
		tempo:       bpm / 60.0,
		beatsPerBar: beatsPerBar,
	}, nil
}

// GetTempo returns the tempo in beats per second.
func (m *Metronome) GetTempo() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tempo
}

// GetBPM returns the tempo in beats per minute.
func (m *Metronome) GetBPM() float64 {
	return m.GetTempo() * 60.0
}

func (m *Metronome) GetBeatsPerBar() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.beatsPerBar
}

// GetOffset returns the audio-clock time of beat 0.
func (m *Metronome) GetOffset() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offset
}

// SetOffset moves beat 0 to the given audio-clock time.
func (m *Metronome) SetOffset(offset float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset = offset
}

// GetBeatInterval returns the number of seconds a beat lasts.
func (m *Metronome) GetBeatInterval() float64 {
	return 1.0 / m.GetTempo()
}

// GetBarInterval returns the number of seconds a bar lasts.
func (m *Metronome) GetBarInterval() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return float64(m.beatsPerBar) / m.tempo
}

// GetSnapshot captures the metronome timeline at a single audio-clock instant.
func (m *Metronome) GetSnapshot(instant float64) Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Instant:     instant,
		Offset:      m.offset,
		Tempo:       m.tempo,
		BeatsPerBar: m.beatsPerBar,
	}
}

// scaledBeatTime converts an audio-clock instant to fractional beats since the offset.
func scaledBeatTime(instant, offset, tempo float64) float64 {
	return (instant - offset) * tempo
}

// markerNumber returns the index of the last marker at or before the given beat time.
func markerNumber(beats float64) int {
	return int(math.Floor(beats))
}

// markerPhase returns how far through its marker the given beat time is, in [0, 1).
func markerPhase(beats float64) float64 {
	return beats - math.Floor(beats)
}
