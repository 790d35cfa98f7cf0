package domain

// State is the lifecycle state of a session, derived from its Active and
// Paused flags.
type State string

const (
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Valid reports whether s is one of the three lifecycle states.
func (s State) Valid() bool {
	switch s {
	case StateRunning, StatePaused, StateCompleted:
		return true
	}
	return false
}

// Flags returns the (active, paused) flag pair a session in state s carries.
func (s State) Flags() (active, paused bool) {
	switch s {
	case StateRunning:
		return true, false
	case StatePaused:
		return true, true
	default:
		return false, false
	}
}

// Label is the human-facing name used by formatters.
func (s State) Label() string {
	switch s {
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateCompleted:
		return "Completed"
	default:
		return string(s)
	}
}
