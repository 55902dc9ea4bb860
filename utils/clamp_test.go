package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		value, min, max, expected float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.2, 0, 1, 0},
		{1.7, 0, 1, 1},
		{3, 5, 1, 3},
		{7, 5, 1, 5},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, Clamp(testCase.value, testCase.min, testCase.max))
	}

	assert.Equal(t, 4, Clamp(9, 0, 4))
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, Clamp01(1.2))
	assert.Equal(t, 0.0, Clamp01(-3.0))
	assert.Equal(t, float32(0.25), Clamp01(float32(0.25)))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
	assert.Equal(t, float32(0), Clamp01(float32(math.NaN())))
}

func TestFloorMod(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, FloorMod(10, 4))
	assert.Equal(t, 3, FloorMod(-1, 4))
	assert.Equal(t, 0, FloorMod(-8, 4))
	assert.Equal(t, int64(1), FloorMod(int64(-3), int64(4)))
}
