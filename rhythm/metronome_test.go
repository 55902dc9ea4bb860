package rhythm

import (
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetronome(t *testing.T) {
	t.Parallel()

	// Create a new metronome at 120 bpm in 4/4
	m, err := NewMetronome(120, 4, 0)
	require.NoError(t, err)

	// The beat interval should be every 500ms
	assert.Equal(t, 2.0, m.GetTempo())
	assert.Equal(t, 0.5, m.GetBeatInterval())
	assert.Equal(t, 2.0, m.GetBarInterval())
	assert.Equal(t, 120.0, m.GetBPM())

	m.SetOffset(3.5)
	assert.Equal(t, 3.5, m.GetOffset())
	assert.Equal(t, 3.5, m.GetSnapshot(10).Offset)
}

func TestNewMetronomeRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := NewMetronome(0, 4, 0)
	require.True(t, errors.IsError(err, ErrInvalidTempo), err)

	_, err = NewMetronome(-90, 4, 0)
	require.True(t, errors.IsError(err, ErrInvalidTempo), err)

	_, err = NewMetronome(120, 0, 0)
	require.True(t, errors.IsError(err, ErrInvalidBarLength), err)
}

func TestSnapshotScenario(t *testing.T) {
	t.Parallel()

	m, err := NewMetronome(120, 4, 0)
	require.NoError(t, err)

	// 10 beats have elapsed after 5 seconds at 2 beats per second
	s := m.GetSnapshot(5)
	beat, err := s.BeatIndex(1)
	require.NoError(t, err)
	assert.Equal(t, 10, beat)
	assert.Equal(t, 0.0, s.OffsetToNearestBeat())
	assert.Equal(t, 0.0, s.FractionSinceBeat())
	assert.False(t, s.IsDownBeat())
	assert.Equal(t, 2, s.GetBeatWithinBar())

	s = m.GetSnapshot(5.1)
	assert.InDelta(t, 0.2, s.OffsetToNearestBeat(), 1e-9)
	assert.InDelta(t, 0.2, s.FractionSinceBeat(), 1e-9)

	s = m.GetSnapshot(5.25)
	half, err := s.BeatIndex(2)
	require.NoError(t, err)
	assert.Equal(t, 21, half)
	assert.Equal(t, -0.5, s.OffsetToNearestBeat())
	assert.Equal(t, 0.25, s.TimeToNextBeat())
	assert.Equal(t, "3.3", s.GetMarker())
}

func TestSnapshotInvalidSubdivision(t *testing.T) {
	t.Parallel()

	s := Snapshot{Instant: 1, Tempo: 2, BeatsPerBar: 4}
	_, err := s.BeatIndex(0)
	require.True(t, errors.IsError(err, ErrInvalidSubdivision), err)
}

func TestSnapshotConsistency(t *testing.T) {
	t.Parallel()

	tempos := []float64{0.5, 1, 1.9166666666666667, 2, 3.3}
	offsets := []float64{0, 0.5, 17.25}

	for _, tempo := range tempos {
		for _, offset := range offsets {
			for i := -40; i < 400; i++ {
				s := Snapshot{Instant: float64(i) * 0.137, Offset: offset, Tempo: tempo, BeatsPerBar: 4}
				scaled := s.ScaledBeatTime()

				beat, err := s.BeatIndex(1)
				require.NoError(t, err)
				fraction := s.FractionSinceBeat()
				nearest := s.OffsetToNearestBeat()

				assert.InDelta(t, scaled, float64(beat)+fraction, 1e-9)
				assert.GreaterOrEqual(t, fraction, 0.0)
				assert.Less(t, fraction, 1.0)
				assert.GreaterOrEqual(t, nearest, -0.5)
				assert.Less(t, nearest, 0.5)
				assert.GreaterOrEqual(t, s.GetBeatWithinBar(), 0)
				assert.Less(t, s.GetBeatWithinBar(), 4)
			}
		}
	}
}

func TestSnapshotBeforeOrigin(t *testing.T) {
	t.Parallel()

	// half a beat before beat 0
	s := Snapshot{Instant: 0.25, Offset: 0.5, Tempo: 2, BeatsPerBar: 4}
	assert.Equal(t, -1, s.GetBeat())
	assert.Equal(t, 3, s.GetBeatWithinBar())
	assert.Equal(t, 0.5, s.FractionSinceBeat())
	assert.Equal(t, -0.5, s.OffsetToNearestBeat())
	assert.Equal(t, 0.5, s.GetTimeOfBeat(0))
}

func TestAccuracyModifier(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		offset   float64
		expected float64
	}{
		{0, 1},
		{0.25, 0.9375},
		{-0.25, 0.9375},
		{0.5, 0},
		{-0.5, 0},
		{0.9, 0},
	}

	for _, testCase := range testCases {
		assert.InDelta(t, testCase.expected, AccuracyModifier(testCase.offset), 1e-12)
	}
}
