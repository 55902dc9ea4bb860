package music

import (
	"math"
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame(t *testing.T) {
	t.Parallel()

	f, err := NewFrame("Level 1", 0, 82.434, 161.739, true)
	require.NoError(t, err)
	assert.Equal(t, "Level 1", f.Name)
	assert.InDelta(t, 82.434, f.IntroLength(), 1e-9)
	assert.InDelta(t, 79.305, f.LoopLength(), 1e-9)
	assert.True(t, f.TransitionImmediately)
}

func TestFrameValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		frame    Frame
		duration float64
		valid    bool
	}{
		{"intro equals loop start", Frame{Name: "menu", IntroStart: 9.391, LoopStart: 9.391, LoopEnd: 36.521}, 600, true},
		{"loop end at buffer end", Frame{Name: "credits", IntroStart: 485.217, LoopStart: 535.304, LoopEnd: 566}, 566, true},
		{"negative intro", Frame{Name: "a", IntroStart: -1, LoopStart: 2, LoopEnd: 3}, 10, false},
		{"intro after loop start", Frame{Name: "b", IntroStart: 3, LoopStart: 2, LoopEnd: 4}, 10, false},
		{"empty loop", Frame{Name: "c", IntroStart: 0, LoopStart: 2, LoopEnd: 2}, 10, false},
		{"loop past buffer", Frame{Name: "d", IntroStart: 0, LoopStart: 2, LoopEnd: 11}, 10, false},
		{"nan offset", Frame{Name: "e", IntroStart: math.NaN(), LoopStart: 2, LoopEnd: 3}, 10, false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := testCase.frame.Validate(testCase.duration)
			if testCase.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsError(err, ErrMalformedFrame), err)
			}
		})
	}
}
