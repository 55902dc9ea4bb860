package rhythm

import (
	"math"

	"github.com/fogleman/ease"
	"github.com/robmorgan/conductor/utils"
)

// AccuracyModifier turns an offset from OffsetToNearestBeat into a multiplier for combat
// actions: 1.0 exactly on the beat, falling off with the fourth power of the distance and
// reaching 0 at the half-beat.
func AccuracyModifier(offset float64) float64 {
	distance := utils.Clamp01(math.Abs(offset) * 2)
	return utils.Clamp01(1 - ease.InQuart(distance))
}
