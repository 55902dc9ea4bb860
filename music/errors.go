package music

import "errors"

var (
	// ErrMalformedFrame is returned when a frame's offsets break 0 <= intro <= loop start < loop end <= duration.
	ErrMalformedFrame = errors.New("malformed music frame")

	// ErrSequenceExhausted means a transition was requested after every queued frame was played.
	// The authored sequence is shorter than the play session.
	ErrSequenceExhausted = errors.New("music frame sequence exhausted")

	// ErrSequenceEnded means the end frame has already been taken.
	ErrSequenceEnded = errors.New("music frame sequence has ended")
)
