package music

import (
	"sync"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/robmorgan/conductor/logger"
	"github.com/sirupsen/logrus"
)

// Sequence is the ordered, one-shot queue of frames making up normal progression, plus a
// single end frame (the death jingle) that may preempt progression once.
type Sequence struct {
	frames    []Frame
	played    []Frame
	end       Frame
	endPlayed bool

	lock sync.Mutex
}

// NewSequence creates a sequence after validating every frame against the buffer duration.
func NewSequence(frames []Frame, end Frame, duration float64) (*Sequence, error) {
	for _, f := range frames {
		if err := f.Validate(duration); err != nil {
			return nil, errors.WithStackTrace(err)
		}
	}
	if err := end.Validate(duration); err != nil {
		return nil, errors.WithStackTrace(err)
	}

	logger := logger.GetProjectLogger()
	logger.WithFields(logrus.Fields{"frames": len(frames), "end_frame": end.Name}).Debug("Frame sequence created")

	queued := make([]Frame, len(frames))
	copy(queued, frames)

	return &Sequence{
		frames: queued,
		played: make([]Frame, 0, len(frames)),
		end:    end,
	}, nil
}

// Next dequeues the next frame of normal progression.
func (s *Sequence) Next() (Frame, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.endPlayed {
		return Frame{}, errors.WithStackTrace(ErrSequenceEnded)
	}
	if len(s.frames) == 0 {
		return Frame{}, errors.WithStackTrace(ErrSequenceExhausted)
	}

	f := s.frames[0]
	s.frames = s.frames[1:]
	s.played = append(s.played, f)
	return f, nil
}

// End takes the end frame. It can only be taken once.
func (s *Sequence) End() (Frame, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.endPlayed {
		return Frame{}, errors.WithStackTrace(ErrSequenceEnded)
	}

	s.endPlayed = true
	s.played = append(s.played, s.end)
	return s.end, nil
}

// Remaining returns the number of frames left in normal progression.
func (s *Sequence) Remaining() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.frames)
}

// Ended reports whether the end frame has been taken.
func (s *Sequence) Ended() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.endPlayed
}

// Played returns the frames taken so far, in order.
func (s *Sequence) Played() []Frame {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]Frame, len(s.played))
	copy(out, s.played)
	return out
}
