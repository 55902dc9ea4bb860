package lighting

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/robmorgan/conductor/effect"
	"github.com/robmorgan/conductor/music"
	"github.com/robmorgan/conductor/rhythm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

var (
	par = Fixture{Name: "left_middle_par", Universe: 1, Address: 115, Profile: "shehds-par"}
	rgb = Fixture{Name: "strip", Universe: 2, Address: 1, Profile: "generic-rgb"}
)

func snapshotAt(instant float64) rhythm.Snapshot {
	return rhythm.Snapshot{Instant: instant, Offset: 0, Tempo: 2, BeatsPerBar: 4}
}

func TestFixtureValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, par.Validate())
	require.NoError(t, rgb.Validate())

	assert.Error(t, Fixture{Name: "x", Address: 1, Profile: "nope"}.Validate())
	assert.Error(t, Fixture{Name: "x", Address: 0, Profile: "generic-rgb"}.Validate())
	assert.Error(t, Fixture{Name: "x", Address: 511, Profile: "generic-rgb"}.Validate())
	assert.Error(t, Fixture{Name: "x", Universe: -1, Address: 1, Profile: "generic-rgb"}.Validate())
}

func TestColorOperations(t *testing.T) {
	t.Parallel()

	state := NewDMXState()
	red := colorful.Color{R: 1, G: 0, B: 0}

	require.NoError(t, state.set(par.colorOperations(red, 0.5)...))
	assert.Equal(t, 128, state.GetValue(1, 115))
	assert.Equal(t, 255, state.GetValue(1, 116))
	assert.Equal(t, 0, state.GetValue(1, 117))
	assert.Equal(t, 0, state.GetValue(1, 118))

	// No intensity channel, so the level scales the colour.
	require.NoError(t, state.set(rgb.colorOperations(red, 0.5)...))
	assert.Equal(t, 128, state.GetValue(2, 1))
	assert.Equal(t, 0, state.GetValue(2, 2))

	assert.Equal(t, 0, state.GetValue(3, 1))
	assert.Error(t, state.set(dmxOperation{universe: 1, channel: 513, value: 1}))
}

func TestBeatLights(t *testing.T) {
	t.Parallel()

	state := NewDMXState()
	pulse := effect.NewPulse()
	lights := NewBeatLights([]Fixture{par, rgb}, pulse, state)

	lights.Observe(snapshotAt(-1), music.Frame{})
	assert.Equal(t, 0, state.GetValue(1, 115))

	lights.Observe(snapshotAt(0.5), music.Frame{})
	assert.Equal(t, 255, state.GetValue(1, 115))
	r, g, b := pulse.Beat.RGB255()
	assert.Equal(t, int(r), state.GetValue(2, 1))
	assert.Equal(t, int(g), state.GetValue(2, 2))
	assert.Equal(t, int(b), state.GetValue(2, 3))

	lights.Observe(snapshotAt(0.95), music.Frame{})
	assert.Less(t, state.GetValue(1, 115), 5)
}

type fakeOLA struct {
	mu     sync.Mutex
	sent   map[int][]byte
	count  int
	closed bool
}

func (f *fakeOLA) SendDmx(universe int, values []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sent == nil {
		f.sent = make(map[int][]byte)
	}
	f.sent[universe] = values
	f.count++
	return true, nil
}

func (f *fakeOLA) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeOLA) sends() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

func TestSendDMXWorker(t *testing.T) {
	t.Parallel()

	fc := testingclock.NewFakeClock(time.Now())
	state := NewDMXState()
	require.NoError(t, state.set(dmxOperation{universe: 1, channel: 10, value: 42}))

	client := &fakeOLA{}
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go SendDMXWorker(ctx, client, fc, 25*time.Millisecond, state, &wg)

	require.Eventually(t, fc.HasWaiters, time.Second, time.Millisecond)
	fc.Step(25 * time.Millisecond)
	require.Eventually(t, func() bool { return client.sends() == 1 }, time.Second, time.Millisecond)

	cancel()
	wg.Wait()

	client.mu.Lock()
	defer client.mu.Unlock()
	assert.True(t, client.closed)
	assert.Equal(t, byte(42), client.sent[1][9])
	assert.Len(t, client.sent[1], UniverseSize)
}
