package conductor

// RequestKind is a change of music asked for by gameplay.
type RequestKind int

const (
	// RequestNextFrame advances to the next frame of the sequence on the next bar (or beat).
	RequestNextFrame RequestKind = iota

	// RequestEndJingle preempts progression with the end frame.
	RequestEndJingle
)

func (k RequestKind) String() string {
	switch k {
	case RequestNextFrame:
		return "next_frame"
	case RequestEndJingle:
		return "end_jingle"
	}
	return "unknown"
}

// Request is a message posted to the conductor from any goroutine. Requests are applied in
// order on the next tick.
type Request struct {
	Kind RequestKind

	// Source names the poster for logging, e.g. "player_death".
	Source string
}

// requestQueueSize bounds how many requests may wait between two ticks.
const requestQueueSize = 16
