package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/robmorgan/conductor/conductor"
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
)

// readLines streams trimmed lines from r until it is exhausted.
func readLines(r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		s := bufio.NewScanner(r)
		for s.Scan() {
			out <- strings.TrimSpace(s.Text())
		}
	}()
	return out
}

// handleCommand applies one headless command. It returns true when the user asked to quit.
func handleCommand(c *conductor.Conductor, line string, out io.Writer) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "t", "next":
		return false, c.Post(conductor.Request{Kind: conductor.RequestNextFrame, Source: "stdin"})
	case "d", "die":
		return false, c.Post(conductor.Request{Kind: conductor.RequestEndJingle, Source: "stdin"})
	case "v", "volume":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: v <level between 0 and 1>")
		}
		level, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return false, fmt.Errorf("invalid volume %q: %w", fields[1], err)
		}
		if math.IsNaN(level) {
			return false, fmt.Errorf("invalid volume %q", fields[1])
		}
		c.SetVolume(level)
		fmt.Fprintf(out, "volume %.2f\n", c.Volume())
	case "s", "status":
		snap, err := c.Snapshot()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "%s at %s, %d frames left\n", c.CurrentFrame().Name, snap.GetMarker(), c.Remaining())
	case "q", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (t, d, v <level>, s, q)", fields[0])
	}
	return false, nil
}

// statusPrinter prints a coloured line on every down beat and whenever the frame changes.
type statusPrinter struct {
	out   io.Writer
	pulse *effect.Pulse

	mu        sync.Mutex
	lastBar   int
	lastFrame string
}

func newStatusPrinter(out io.Writer, pulse *effect.Pulse) *statusPrinter {
	return &statusPrinter{out: out, pulse: pulse, lastBar: -1}
}

func (p *statusPrinter) Observe(snap rhythm.Snapshot, frame music.Frame) {
	if snap.ScaledBeatTime() < 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bar := snap.GetBar()
	if bar == p.lastBar && frame.Name == p.lastFrame {
		return
	}
	p.lastBar, p.lastFrame = bar, frame.Name

	marker := effect.TermString(p.pulse.Color(snap), snap.GetMarker())
	fmt.Fprintf(p.out, "%s  %s\n", marker, frame.Name)
}
