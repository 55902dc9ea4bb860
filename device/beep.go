package device

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/robmorgan/conductor/utils"
)

// Beep is a device rendering through github.com/gopxl/beep/v2. The device is itself the
// streamer handed to the speaker: its audio clock is the number of samples rendered so far,
// and channels start and stop on exact sample indices.
type Beep struct {
	mu       sync.Mutex
	buffer   *beep.Buffer
	format   beep.Format
	rendered int
	channels [NumChannels]*beepChannel
	scratch  [][2]float64
	speaker  bool
	closed   bool
}

var _ beep.Streamer = (*Beep)(nil)

type beepChannel struct {
	device *Beep

	armed    bool
	finished bool
	start    int
	stop     int // -1 when no stop is scheduled
	offset   int
	gain     *effects.Gain
	volume   float64
}

// NewBeep creates a device playing from a decoded music buffer. Nothing is audible until
// the device is streamed, either by Start or by another mixer.
func NewBeep(buffer *beep.Buffer) *Beep {
	d := &Beep{
		buffer: buffer,
		format: buffer.Format(),
	}
	for i := range d.channels {
		d.channels[i] = &beepChannel{device: d, stop: -1, volume: 1}
	}
	return d
}

// Start opens the speaker at the buffer's sample rate and begins streaming the device.
func (d *Beep) Start(bufferSize time.Duration) error {
	sr := d.format.SampleRate
	if err := speaker.Init(sr, sr.N(bufferSize)); err != nil {
		return err
	}

	d.mu.Lock()
	d.speaker = true
	d.mu.Unlock()

	speaker.Play(d)
	return nil
}

// Stream mixes both channels into samples and advances the audio clock.
func (d *Beep) Stream(samples [][2]float64) (n int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, false
	}

	for i := range samples {
		samples[i] = [2]float64{}
	}
	if cap(d.scratch) < len(samples) {
		d.scratch = make([][2]float64, len(samples))
	}

	for _, c := range d.channels {
		c.render(samples, d.rendered)
	}

	d.rendered += len(samples)
	return len(samples), true
}

func (d *Beep) Err() error {
	return nil
}

// Now returns the rendered sample count in seconds. The speaker pulls one buffer at a time, so
// the clock advances in steps of the speaker buffer size passed to Start and beat reads taken
// between two pulls see the same time. Use a smaller buffer for finer beat reads.
func (d *Beep) Now() (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0, ErrUnavailable
	}
	return d.seconds(d.rendered), nil
}

func (d *Beep) Channel(n int) (Channel, error) {
	if n < 0 || n >= NumChannels {
		return nil, ErrNoSuchChannel
	}
	return d.channels[n], nil
}

func (d *Beep) Duration() float64 {
	return d.format.SampleRate.D(d.buffer.Len()).Seconds()
}

func (d *Beep) Close() error {
	d.mu.Lock()
	wasPlaying := d.speaker && !d.closed
	d.closed = true
	d.mu.Unlock()

	if wasPlaying {
		speaker.Clear()
		speaker.Close()
	}
	return nil
}

func (d *Beep) seconds(samples int) float64 {
	return float64(samples) / float64(d.format.SampleRate)
}

func (d *Beep) samples(seconds float64) int {
	return int(math.Round(seconds * float64(d.format.SampleRate)))
}

// render adds the channel's audible part of the block starting at sample pos.
func (c *beepChannel) render(samples [][2]float64, pos int) {
	if !c.armed || c.finished {
		return
	}

	from := max(c.start, pos)
	to := pos + len(samples)
	if c.stop >= 0 && c.stop < to {
		to = c.stop
	}
	if from >= to {
		return
	}

	tmp := c.device.scratch[:to-from]
	got, ok := c.gain.Stream(tmp)
	for i := 0; i < got; i++ {
		samples[from-pos+i][0] += tmp[i][0]
		samples[from-pos+i][1] += tmp[i][1]
	}
	if !ok || got < len(tmp) {
		c.finished = true
	}
}

func (c *beepChannel) PlayScheduled(at, offset float64) error {
	d := c.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrUnavailable
	}

	c.offset = utils.Clamp(d.samples(offset), 0, d.buffer.Len())
	c.start = d.samples(at)
	c.stop = -1
	c.gain = &effects.Gain{
		Streamer: d.buffer.Streamer(c.offset, d.buffer.Len()),
		Gain:     c.volume - 1,
	}
	c.armed = true
	c.finished = false
	return nil
}

func (c *beepChannel) SetScheduledEndTime(at float64) error {
	d := c.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrUnavailable
	}

	c.stop = d.samples(at)
	return nil
}

func (c *beepChannel) IsPlaying() bool {
	d := c.device
	d.mu.Lock()
	defer d.mu.Unlock()

	return c.armed && !c.finished && !d.closed &&
		d.rendered >= c.start && (c.stop < 0 || d.rendered < c.stop)
}

func (c *beepChannel) Position() float64 {
	d := c.device
	d.mu.Lock()
	defer d.mu.Unlock()

	if !c.armed {
		return 0
	}

	now := d.rendered
	if c.stop >= 0 && c.stop < now {
		now = c.stop
	}
	if now <= c.start {
		return d.seconds(c.offset)
	}
	return d.seconds(min(c.offset+now-c.start, d.buffer.Len()))
}

func (c *beepChannel) SetVolume(level float64) {
	d := c.device
	d.mu.Lock()
	defer d.mu.Unlock()

	c.volume = utils.Clamp01(level)
	if c.gain != nil {
		c.gain.Gain = c.volume - 1
	}
}
