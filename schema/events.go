package schema

// ControllerState is a step of the session controller lifecycle.
type ControllerState int

const (
	// StateInitializing is the state before the session runs.
	StateInitializing ControllerState = iota
	// StateRunning means the session is alive.
	StateRunning
	// StateCompleting means the session reported completion.
	StateCompleting
	// StateTerminating means teardown was requested and awaits confirmation.
	StateTerminating
	// StateDestroyed is terminal.
	StateDestroyed
)

func (s ControllerState) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateCompleting:
		return "completing"
	case StateTerminating:
		return "terminating"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// SessionExit reports how the session process ended.
type SessionExit struct {
	Status int
	Err    error
}
