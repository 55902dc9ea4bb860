// Package device wraps the host audio output. A device exposes the audio clock, a monotonic
// sample-accurate time source in seconds, and two playback channels that read from the same
// music buffer and start or stop at scheduled clock times.
package device

import "errors"

// NumChannels is the number of playback channels every device provides.
const NumChannels = 2

var (
	// ErrUnavailable is returned when the audio clock cannot be read.
	ErrUnavailable = errors.New("audio device unavailable")

	ErrNoSuchChannel = errors.New("no such playback channel")
)

// Clock is the audio clock. Now never returns a smaller value than a previous call.
type Clock interface {
	Now() (float64, error)
}

// Channel is one playback channel of a device.
type Channel interface {
	// PlayScheduled arms the channel to start playing the buffer from offset (seconds)
	// at the given clock time. Arming again replaces the previous schedule.
	PlayScheduled(at, offset float64) error

	// SetScheduledEndTime arms the channel to stop at the given clock time.
	SetScheduledEndTime(at float64) error

	IsPlaying() bool

	// Position returns the current playback offset within the buffer in seconds.
	Position() float64

	// SetVolume sets the linear channel gain in [0, 1].
	SetVolume(level float64)
}

// Device is a playback device with NumChannels channels.
type Device interface {
	Clock

	Channel(n int) (Channel, error)

	// Duration returns the length of the music buffer in seconds.
	Duration() float64

	Close() error
}
