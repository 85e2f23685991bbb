// ABOUTME: Player lifecycle states and statistics
// ABOUTME: Running, Paused and the terminal Stopped state
package streamplay

// State is the player lifecycle state
type State int32

const (
	// StateCreated is the zero value. A player is never observed in it:
	// NewPlayer returns Running, and events that carry no transition leave
	// their State field at StateCreated.
	StateCreated State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stats contains session statistics
type Stats struct {
	FragmentsReceived int64
	BytesReceived     int64
	UnitsScheduled    int64
	UnitsEnded        int64
	UnitsDropped      int64
	DecodeFailures    int64
	InFlightDecodes   int64

	// BufferedSamples is the raw sample count awaiting the next flush
	BufferedSamples int

	// QueuedUnits is the number of decoded buffers awaiting a flush
	QueuedUnits int

	// Cursor is the device time at which the next unit will start
	Cursor float64
}
