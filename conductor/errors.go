package conductor

import "errors"

var (
	// ErrBeatSyncDisabled is returned once the audio clock failed mid-session. The conductor
	// stops scheduling and beat reads stay disabled for the rest of the session.
	ErrBeatSyncDisabled = errors.New("beat sync disabled")

	// ErrRequestQueueFull is returned by Post when the tick loop has fallen behind.
	ErrRequestQueueFull = errors.New("conductor request queue is full")
)
