package stream

// State is the lifecycle state of a session.
type State int32

const (
	// StateOpening means the session is registered but its stream is not yet established.
	StateOpening State = iota
	// StateOpen means the stream is established and accepting side-channel requests.
	StateOpen
	// StateClosing means teardown has started.
	StateClosing
	// StateClosed is terminal.
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
