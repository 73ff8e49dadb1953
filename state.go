package xfyun

// State represents the current state of a synthesis stream.
type State string

const (
	// StateIdle is the initial state before the connection is opened.
	StateIdle State = "Idle"

	// StateConnected indicates the WebSocket connection is open and no frame is in flight.
	StateConnected State = "Connected"

	// StateSending indicates a text frame is being written.
	StateSending State = "Sending"

	// StateReceiving indicates the stream is draining audio messages for the current chunk.
	StateReceiving State = "Receiving"

	// StateFailed indicates the server reported an error or the transport failed.
	StateFailed State = "Failed"

	// StateClosed indicates the connection has been released.
	StateClosed State = "Closed"
)

// IsActive returns true if the stream holds an open connection.
func (s State) IsActive() bool {
	switch s {
	case StateConnected, StateSending, StateReceiving:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the state cannot transition further.
func (s State) IsTerminal() bool {
	return s == StateClosed
}

func (s State) String() string {
	return string(s)
}
