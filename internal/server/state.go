package server

import (
	"time"
)

// State is the lifecycle state of the listener.
type State int

const (
	// StateStopped means no listener exists.
	StateStopped State = iota
	// StateStarting means a bind attempt is in progress.
	StateStarting
	// StateRunning means the listener is bound and serving.
	StateRunning
	// StateFailed means the last bind attempt failed; see Status.Err.
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateRunning, StateFailed},
	StateRunning:  {StateStopped},
	StateFailed:   {StateStarting, StateStopped},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Status is a read-only snapshot of the manager for presentation.
type Status struct {
	State     State
	Config    Config
	Addr      string    // bound address while running
	StartedAt time.Time // zero unless running
	Err       error     // last bind error while failed
}

// Running reports whether the listener is serving.
func (s Status) Running() bool {
	return s.State == StateRunning
}

// Message returns the operator-facing error text, or "" when there is none.
func (s Status) Message() string {
	if s.Err == nil {
		return ""
	}
	return OperatorMessage(s.Err)
}
