// Package oscbeat broadcasts the beat clock over OSC so external gear (lighting desks,
// visualisers) can follow the music.
package oscbeat

import (
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/hypebeast/go-osc/osc"
	"github.com/robmorgan/conductor/logger"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/sirupsen/logrus"
)

const (
	// AddressBeat carries the beat index, the beat within the bar and the BPM.
	AddressBeat = "/conductor/beat"

	// AddressFrame carries the name of the frame that started and whether it was immediate.
	AddressFrame = "/conductor/frame"
)

// Sender sends an OSC packet. *osc.Client satisfies it.
type Sender interface {
	Send(packet osc.Packet) error
}

// Publisher sends one message per beat and one per frame change. It implements
// conductor.Observer.
type Publisher struct {
	sender Sender

	mu        sync.Mutex
	started   bool
	lastBeat  int
	lastFrame string
}

// NewPublisher creates a publisher sending to host:port over UDP.
func NewPublisher(host string, port int) *Publisher {
	return NewPublisherWithSender(osc.NewClient(host, port))
}

func NewPublisherWithSender(s Sender) *Publisher {
	return &Publisher{sender: s}
}

// Observe sends a beat message when the beat index changed since the last call and a frame
// message when the current frame changed. Nothing is sent before beat 0.
func (p *Publisher) Observe(snap rhythm.Snapshot, frame music.Frame) {
	logger := logger.GetProjectLogger()

	beat := snap.GetBeat()
	if beat < 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started || frame.Name != p.lastFrame {
		msg := osc.NewMessage(AddressFrame)
		msg.Append(frame.Name)
		msg.Append(frame.TransitionImmediately)
		if err := p.send(msg); err != nil {
			logger.WithFields(logrus.Fields{"address": AddressFrame, "frame": frame.Name}).WithError(err).Warn("OSC send failed")
		}
		p.lastFrame = frame.Name
	}

	if !p.started || beat != p.lastBeat {
		msg := osc.NewMessage(AddressBeat)
		msg.Append(int32(beat))
		msg.Append(int32(snap.GetBeatWithinBar()))
		msg.Append(float32(snap.Tempo * 60))
		if err := p.send(msg); err != nil {
			logger.WithFields(logrus.Fields{"address": AddressBeat, "beat": beat}).WithError(err).Warn("OSC send failed")
		}
		p.lastBeat = beat
	}

	p.started = true
}

func (p *Publisher) send(msg *osc.Message) error {
	if err := p.sender.Send(msg); err != nil {
		return errors.WithStackTrace(err)
	}
	return nil
}
