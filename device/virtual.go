package device

import (
	"math"
	"sync"
	"time"

	"github.com/robmorgan/conductor/utils"
	"k8s.io/utils/clock"
)

// Virtual is a headless device. Its audio clock follows a clock.PassiveClock and channel
// playback is derived from the scheduled start and stop times, so no samples are rendered.
type Virtual struct {
	mu        sync.RWMutex
	clock     clock.PassiveClock
	origin    time.Time
	duration  float64
	available bool
	channels  [NumChannels]*virtualChannel
}

type virtualChannel struct {
	device *Virtual

	armed   bool
	startAt float64
	offset  float64
	stopAt  float64
	volume  float64
}

// NewVirtual creates a headless device playing a buffer of the given duration in seconds.
// The audio clock reads 0 at the moment of creation.
func NewVirtual(clk clock.PassiveClock, duration float64) *Virtual {
	v := &Virtual{
		clock:     clk,
		origin:    clk.Now(),
		duration:  duration,
		available: true,
	}
	for i := range v.channels {
		v.channels[i] = &virtualChannel{device: v, stopAt: math.Inf(1), volume: 1}
	}
	return v
}

// Now returns the seconds elapsed since the device was created.
func (v *Virtual) Now() (float64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.available {
		return 0, ErrUnavailable
	}
	return v.now(), nil
}

func (v *Virtual) now() float64 {
	return v.clock.Since(v.origin).Seconds()
}

// SetAvailable simulates losing or regaining the output device.
func (v *Virtual) SetAvailable(available bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.available = available
}

func (v *Virtual) Channel(n int) (Channel, error) {
	if n < 0 || n >= NumChannels {
		return nil, ErrNoSuchChannel
	}
	return v.channels[n], nil
}

func (v *Virtual) Duration() float64 {
	return v.duration
}

func (v *Virtual) Close() error {
	v.SetAvailable(false)
	return nil
}

// Volume returns the gain of channel n.
func (v *Virtual) Volume(n int) float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.channels[n].volume
}

func (c *virtualChannel) PlayScheduled(at, offset float64) error {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()

	if !c.device.available {
		return ErrUnavailable
	}

	c.armed = true
	c.startAt = at
	c.offset = utils.Clamp(offset, 0, c.device.duration)
	c.stopAt = math.Inf(1)
	return nil
}

func (c *virtualChannel) SetScheduledEndTime(at float64) error {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()

	if !c.device.available {
		return ErrUnavailable
	}

	c.stopAt = at
	return nil
}

func (c *virtualChannel) IsPlaying() bool {
	c.device.mu.RLock()
	defer c.device.mu.RUnlock()

	if !c.device.available || !c.armed {
		return false
	}

	now := c.device.now()
	return now >= c.startAt && now < c.stopAt && c.offset+(now-c.startAt) < c.device.duration
}

func (c *virtualChannel) Position() float64 {
	c.device.mu.RLock()
	defer c.device.mu.RUnlock()

	if !c.armed {
		return 0
	}

	now := math.Min(c.device.now(), c.stopAt)
	if now <= c.startAt {
		return c.offset
	}
	return math.Min(c.offset+(now-c.startAt), c.device.duration)
}

func (c *virtualChannel) SetVolume(level float64) {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	c.volume = utils.Clamp01(level)
}
