package conductor

import (
	"context"
	"sync"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// DefaultTickRate is how often the runner ticks the conductor.
const DefaultTickRate = 10 * time.Millisecond

// Observer is notified after every tick with the beat timeline and the current frame.
// Observers run on the tick goroutine and must not block.
type Observer interface {
	Observe(snap rhythm.Snapshot, frame music.Frame)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(snap rhythm.Snapshot, frame music.Frame)

func (f ObserverFunc) Observe(snap rhythm.Snapshot, frame music.Frame) {
	f(snap, frame)
}

// Runner is the tick goroutine of a conductor.
type Runner struct {
	conductor *Conductor
	clock     clock.WithTicker
	tickRate  time.Duration
	observers []Observer
}

// NewRunner creates a runner ticking c every tickRate on the given clock.
func NewRunner(c *Conductor, clk clock.WithTicker, tickRate time.Duration, observers ...Observer) *Runner {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Runner{
		conductor: c,
		clock:     clk,
		tickRate:  tickRate,
		observers: observers,
	}
}

// ProcessForever runs the tick loop on its own goroutine until ctx is cancelled or beat sync
// is disabled.
func (r *Runner) ProcessForever(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := r.Run(ctx); err != nil {
			logger.GetProjectLogger().WithError(err).Error("Conductor stopped")
		}
	}()
}

// Run ticks the conductor until ctx is cancelled, returning nil, or until beat sync is
// disabled, returning ErrBeatSyncDisabled.
func (r *Runner) Run(ctx context.Context) error {
	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{"tick_rate": r.tickRate, "observers": len(r.observers)}).Info("Conductor runner started")

	t := r.clock.NewTicker(r.tickRate)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Conductor runner shutdown")
			return nil
		case <-t.C():
			if err := r.conductor.Tick(); err != nil {
				if errors.IsError(err, ErrBeatSyncDisabled) {
					return err
				}
				logger.WithError(err).Error("Tick failed")
			}
			r.notify()
		}
	}
}

func (r *Runner) notify() {
	if len(r.observers) == 0 {
		return
	}

	snap, err := r.conductor.Snapshot()
	if err != nil {
		return
	}
	frame := r.conductor.CurrentFrame()
	for _, o := range r.observers {
		o.Observe(snap, frame)
	}
}
