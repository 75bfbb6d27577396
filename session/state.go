package session

import "fmt"

type State int

const (
	Idle State = iota
	Connecting
	Streaming
	Flushing
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Streaming:
		return "streaming"
	case Flushing:
		return "flushing"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	Idle:       {Connecting, Closed},
	Connecting: {Streaming, Closed},
	Streaming:  {Streaming, Flushing, Closed},
	Flushing:   {Closed},
}

func (s State) canMove(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
