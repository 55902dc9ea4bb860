// Package player drives the two playback channels of a device. One channel is heard while
// the other idles or waits on a scheduled start, so loop restarts and frame transitions are
// handed from one channel to the other at an identical clock time without a gap.
package player

import (
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/device"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/utils"
)

// Slot names one of the two channels.
type Slot int

const (
	SlotA Slot = iota
	SlotB
)

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

func (s Slot) String() string {
	if s == SlotA {
		return "A"
	}
	return "B"
}

// Schedule is the last start armed on a channel.
type Schedule struct {
	Frame  music.Frame
	Offset float64
	At     float64
}

// Player owns both channels of a device.
type Player struct {
	clock    device.Clock
	channels [device.NumChannels]device.Channel

	mu        sync.Mutex
	schedules [device.NumChannels]*Schedule
	stops     [device.NumChannels]*float64
	volume    float64
}

// New takes both channels of the device.
func New(dev device.Device) (*Player, error) {
	p := &Player{clock: dev, volume: 1}
	for i := range p.channels {
		ch, err := dev.Channel(i)
		if err != nil {
			return nil, err
		}
		p.channels[i] = ch
	}
	return p, nil
}

// ScheduleStart arms slot to play frame from startOffset, audible exactly at the clock time at.
// The time must be strictly in the future, otherwise ErrSchedulingTooLate is returned and
// nothing is armed.
func (p *Player) ScheduleStart(slot Slot, frame music.Frame, startOffset, at float64) error {
	now, err := p.clock.Now()
	if err != nil {
		return err
	}
	if at <= now {
		return errors.WithStackTraceAndPrefix(ErrSchedulingTooLate, "start at %.6f, clock at %.6f", at, now)
	}

	if err := p.channels[slot].PlayScheduled(at, startOffset); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.schedules[slot] = &Schedule{Frame: frame, Offset: startOffset, At: at}
	p.stops[slot] = nil
	return nil
}

// ScheduleStop arms slot to stop at the clock time at.
func (p *Player) ScheduleStop(slot Slot, at float64) error {
	if err := p.channels[slot].SetScheduledEndTime(at); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops[slot] = &at
	return nil
}

// IsPlaying reports whether slot is audible at the current clock time.
func (p *Player) IsPlaying(slot Slot) bool {
	return p.channels[slot].IsPlaying()
}

// CurrentPosition returns the playback offset of slot within the buffer, in seconds.
func (p *Player) CurrentPosition(slot Slot) float64 {
	return p.channels[slot].Position()
}

// Scheduled returns the last start armed on slot, if any.
func (p *Player) Scheduled(slot Slot) (Schedule, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s := p.schedules[slot]; s != nil {
		return *s, true
	}
	return Schedule{}, false
}

// ScheduledStop returns the stop time armed on slot, if any.
func (p *Player) ScheduledStop(slot Slot) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s := p.stops[slot]; s != nil {
		return *s, true
	}
	return 0, false
}

// SetVolume applies the same gain, clamped to [0, 1], to both channels.
func (p *Player) SetVolume(level float64) {
	level = utils.Clamp01(level)

	p.mu.Lock()
	p.volume = level
	p.mu.Unlock()

	for _, ch := range p.channels {
		ch.SetVolume(level)
	}
}

// Volume returns the clamped gain applied to both channels.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}
