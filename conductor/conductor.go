// Package conductor keeps the music in time with the game. It plays a sequence of frames on a
// dual-channel player, loops the current frame seamlessly, moves to the next frame on a bar (or
// beat) boundary when asked, and exposes the beat clock that gameplay reads to time actions.
package conductor

import (
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/device"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/player"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/sirupsen/logrus"
)

// DefaultStartDelay is the time between startup and the first frame becoming audible.
const DefaultStartDelay = 0.5

// Options describes the music a conductor plays.
type Options struct {
	BPM       float64
	BarLength int

	// StartDelay in seconds. Beat 0 is the instant the first frame starts.
	StartDelay float64

	Frames   []music.Frame
	EndFrame music.Frame
}

// Conductor schedules frames on the player. A single goroutine calls Tick; beat reads and
// requests are safe from any goroutine.
type Conductor struct {
	mu sync.RWMutex

	clock     device.Clock
	player    *player.Player
	metronome *rhythm.Metronome
	sequence  *music.Sequence
	requests  chan Request

	active      player.Slot
	current     music.Frame
	swapPending bool
	swapAt      float64
	lastSwapAt  float64

	// pending holds a popped frame whose transition could not be issued yet.
	pending  *music.Frame
	disabled bool
}

// New validates the options against the device's buffer and schedules the first frame on slot
// A, StartDelay seconds from now. It fails if the audio clock cannot be read.
func New(opts Options, dev device.Device) (*Conductor, error) {
	logger := logger.GetProjectLogger()

	if opts.StartDelay <= 0 {
		opts.StartDelay = DefaultStartDelay
	}

	seq, err := music.NewSequence(opts.Frames, opts.EndFrame, dev.Duration())
	if err != nil {
		return nil, err
	}

	p, err := player.New(dev)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	now, err := dev.Now()
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}
	startAt := now + opts.StartDelay

	m, err := rhythm.NewMetronome(opts.BPM, opts.BarLength, startAt)
	if err != nil {
		return nil, errors.WithStackTrace(err)
	}

	first, err := seq.Next()
	if err != nil {
		return nil, err
	}

	if err := p.ScheduleStart(player.SlotA, first, first.IntroStart, startAt); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	logger.WithFields(logrus.Fields{
		"frame":    first.Name,
		"start_at": startAt,
		"bpm":      opts.BPM,
		"bar":      opts.BarLength,
	}).Info("Conductor started")

	return &Conductor{
		clock:      dev,
		player:     p,
		metronome:  m,
		sequence:   seq,
		requests:   make(chan Request, requestQueueSize),
		active:     player.SlotA,
		current:    first,
		lastSwapAt: startAt + first.IntroLength(),
	}, nil
}

// Snapshot samples the audio clock once and returns the beat timeline at that instant.
func (c *Conductor) Snapshot() (rhythm.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.disabled {
		return rhythm.Snapshot{}, errors.WithStackTrace(ErrBeatSyncDisabled)
	}

	now, err := c.clock.Now()
	if err != nil {
		return rhythm.Snapshot{}, errors.WithStackTrace(err)
	}
	return c.metronome.GetSnapshot(now), nil
}

// BeatIndex returns the index of the last beat that occurred at the given subdivision.
func (c *Conductor) BeatIndex(subdivision int) (int, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return 0, err
	}

	idx, err := snap.BeatIndex(subdivision)
	if err != nil {
		return 0, errors.WithStackTrace(err)
	}
	return idx, nil
}

// OffsetToNearestBeat returns the signed distance in beats to the closest beat, in [-0.5, 0.5).
func (c *Conductor) OffsetToNearestBeat() (float64, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return 0, err
	}
	return snap.OffsetToNearestBeat(), nil
}

// FractionSinceBeat returns how far through the current beat the clock is, in [0, 1).
func (c *Conductor) FractionSinceBeat() (float64, error) {
	snap, err := c.Snapshot()
	if err != nil {
		return 0, err
	}
	return snap.FractionSinceBeat(), nil
}

// RequestTransition moves to the next frame of the sequence. Errors are returned when the
// sequence is exhausted or has ended; a transition that cannot be issued right away is
// retried by Tick.
func (c *Conductor) RequestTransition() error {
	return c.request(Request{Kind: RequestNextFrame})
}

// RequestEndJingle preempts progression with the end frame.
func (c *Conductor) RequestEndJingle() error {
	return c.request(Request{Kind: RequestEndJingle})
}

// Post queues a request to be applied on the next tick without blocking the caller.
func (c *Conductor) Post(r Request) error {
	select {
	case c.requests <- r:
		return nil
	default:
		return errors.WithStackTrace(ErrRequestQueueFull)
	}
}

// SetVolume sets the music volume, clamped to [0, 1].
func (c *Conductor) SetVolume(level float64) {
	c.player.SetVolume(level)
}

// Volume returns the music volume last applied.
func (c *Conductor) Volume() float64 {
	return c.player.Volume()
}

// CurrentFrame returns the frame that is playing, or about to play once a pending swap completes.
func (c *Conductor) CurrentFrame() music.Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// ActiveSlot returns the channel currently heard.
func (c *Conductor) ActiveSlot() player.Slot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Remaining returns the number of frames left in normal progression.
func (c *Conductor) Remaining() int {
	return c.sequence.Remaining()
}

// Disabled reports whether beat sync was turned off after a device failure.
func (c *Conductor) Disabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.disabled
}

// Player returns the underlying dual-channel player.
func (c *Conductor) Player() *player.Player {
	return c.player
}

// Position returns the playback offset in the buffer of the channel currently heard.
func (c *Conductor) Position() float64 {
	return c.player.CurrentPosition(c.ActiveSlot())
}
