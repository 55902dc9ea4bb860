package conductor

import (
	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/device"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/player"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/sirupsen/logrus"
)

// Tick advances the scheduler using a single audio-clock sample. In order it applies posted
// requests, completes a due swap, retries a transition that could not be issued and arms the
// next loop of the current frame.
func (c *Conductor) Tick() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return errors.WithStackTrace(ErrBeatSyncDisabled)
	}

	now, err := c.clock.Now()
	if err != nil {
		return c.disable(err)
	}

	c.drainRequests(now)
	if c.disabled {
		return errors.WithStackTrace(ErrBeatSyncDisabled)
	}

	if c.swapPending && now >= c.swapAt {
		c.completeSwap()
	}

	if c.pending != nil {
		if err := c.issuePending(now); err != nil {
			return err
		}
	}

	if !c.swapPending && now >= c.lastSwapAt+c.metronome.GetBarInterval() {
		if err := c.scheduleLoop(now); err != nil {
			return err
		}
	}

	return nil
}

func (c *Conductor) drainRequests(now float64) {
	logger := logger.GetProjectLogger()

	for {
		select {
		case r := <-c.requests:
			if err := c.apply(r, now); err != nil {
				logger.WithFields(logrus.Fields{"request": r.Kind, "source": r.Source}).Errorf("Request failed: %v", err)
				if c.disabled {
					return
				}
			}
		default:
			return
		}
	}
}

// request applies r immediately with a fresh clock sample.
func (c *Conductor) request(r Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.disabled {
		return errors.WithStackTrace(ErrBeatSyncDisabled)
	}

	now, err := c.clock.Now()
	if err != nil {
		return c.disable(err)
	}

	return c.apply(r, now)
}

// apply pops the requested frame and tries to issue its transition. A transition that is too
// late or has to wait for a pending swap is kept and retried by Tick.
func (c *Conductor) apply(r Request, now float64) error {
	logger := logger.GetProjectLogger()

	var (
		frame music.Frame
		err   error
	)
	switch r.Kind {
	case RequestEndJingle:
		frame, err = c.sequence.End()
	default:
		frame, err = c.sequence.Next()
	}
	if err != nil {
		logger.WithFields(logrus.Fields{"request": r.Kind, "remaining": c.sequence.Remaining()}).Error("No frame to transition to")
		return err
	}

	if c.pending != nil {
		logger.WithFields(logrus.Fields{"superseded": c.pending.Name, "frame": frame.Name}).Info("Pending transition superseded")
	}
	c.pending = &frame

	return c.issuePending(now)
}

// issuePending issues the held transition. Too-late failures and transitions waiting for a
// pending swap stay held without an error.
func (c *Conductor) issuePending(now float64) error {
	logger := logger.GetProjectLogger()

	frame := *c.pending
	issued, err := c.transition(now, frame)
	switch {
	case err == nil && issued:
		c.pending = nil
		return nil
	case err == nil:
		logger.WithFields(logrus.Fields{"frame": frame.Name, "swap_at": c.swapAt}).Debug("Transition waiting for pending swap")
		return nil
	case errors.IsError(err, player.ErrSchedulingTooLate):
		logger.WithFields(logrus.Fields{"frame": frame.Name, "now": now}).Debug("Transition too late, retrying next tick")
		return nil
	case errors.IsError(err, device.ErrUnavailable):
		return c.disable(err)
	default:
		return errors.WithStackTrace(err)
	}
}

// TransitionTime returns the audio-clock time at which frame would start if requested at the
// snapshot's instant: the next bar boundary, or the next beat for immediate frames.
func TransitionTime(snap rhythm.Snapshot, frame music.Frame) float64 {
	beatsToWait := 0
	if !frame.TransitionImmediately {
		beatsToWait = snap.BeatsPerBar - (snap.GetBeatWithinBar() + 1)
	}
	return snap.Instant + float64(beatsToWait)/snap.Tempo + snap.TimeToNextBeat()
}

// transition schedules the idle channel to start frame's intro at the transition time and the
// active channel to stop at that same time. It returns false without scheduling when a pending
// swap completes strictly before the transition time. A transition landing at or before a
// pending swap supersedes it.
func (c *Conductor) transition(now float64, frame music.Frame) (bool, error) {
	logger := logger.GetProjectLogger()

	at := TransitionTime(c.metronome.GetSnapshot(now), frame)
	if c.swapPending && c.swapAt < at {
		return false, nil
	}

	idle := c.active.Other()
	if err := c.player.ScheduleStart(idle, frame, frame.IntroStart, at); err != nil {
		return false, err
	}
	if err := c.player.ScheduleStop(c.active, at); err != nil {
		return false, err
	}

	if frame.TransitionImmediately {
		c.metronome.SetOffset(at)
	}

	logger.WithFields(logrus.Fields{
		"from":      c.current.Name,
		"to":        frame.Name,
		"at":        at,
		"now":       now,
		"slot":      idle,
		"immediate": frame.TransitionImmediately,
	}).Info("Frame transition scheduled")

	c.current = frame
	c.swapPending = true
	c.swapAt = at
	return true, nil
}

// scheduleLoop restarts the current frame's loop region on the idle channel exactly when the
// active channel reaches the loop end.
func (c *Conductor) scheduleLoop(now float64) error {
	logger := logger.GetProjectLogger()

	remaining := c.current.LoopEnd - c.player.CurrentPosition(c.active)
	if remaining <= 0 {
		// The active channel already played past the loop end; restart on the next beat.
		logger.WithFields(logrus.Fields{"frame": c.current.Name, "overrun": -remaining}).Warn("Loop end missed")
		remaining = c.metronome.GetSnapshot(now).TimeToNextBeat()
	}
	loopAt := now + remaining

	idle := c.active.Other()
	err := c.player.ScheduleStart(idle, c.current, c.current.LoopStart, loopAt)
	if err == nil {
		err = c.player.ScheduleStop(c.active, loopAt)
	}
	switch {
	case err == nil:
	case errors.IsError(err, player.ErrSchedulingTooLate):
		logger.WithFields(logrus.Fields{"frame": c.current.Name, "now": now}).Debug("Loop too late, retrying next tick")
		return nil
	case errors.IsError(err, device.ErrUnavailable):
		return c.disable(err)
	default:
		return errors.WithStackTrace(err)
	}

	logger.WithFields(logrus.Fields{"frame": c.current.Name, "at": loopAt, "slot": idle}).Debug("Loop scheduled")

	c.swapPending = true
	c.swapAt = loopAt
	return nil
}

// completeSwap makes the idle channel the active one. It is the only place the active slot changes.
func (c *Conductor) completeSwap() {
	c.active = c.active.Other()
	c.swapPending = false
	c.lastSwapAt = c.swapAt
}

// disable turns beat sync off for the rest of the session after the audio clock failed.
// Whatever is already scheduled on the device plays out.
func (c *Conductor) disable(cause error) error {
	logger := logger.GetProjectLogger()
	logger.WithError(cause).Error("Audio device unavailable, disabling beat sync")

	c.disabled = true
	c.pending = nil
	return errors.WithStackTrace(ErrBeatSyncDisabled)
}
