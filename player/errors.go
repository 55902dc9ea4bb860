package player

import "errors"

// ErrSchedulingTooLate is returned when a start time has already passed on the audio clock.
// Callers recompute the time and retry on the next tick.
var ErrSchedulingTooLate = errors.New("scheduling too late")
