package enquiry

import (
	"errors"
	"fmt"
)

// State is the lifecycle position of one submission.
type State int

const (
	Idle State = iota
	Validating
	Rejected
	Dispatching
	Sent
	Failed
)

var stateNames = [...]string{
	Idle:        "idle",
	Validating:  "validating",
	Rejected:    "rejected",
	Dispatching: "dispatching",
	Sent:        "sent",
	Failed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

var ErrInvalidTransition = errors.New("enquiry: invalid state transition")

var transitions = map[State][]State{
	Idle:        {Validating},
	Validating:  {Rejected, Dispatching},
	Rejected:    {Idle},
	Dispatching: {Sent, Failed},
}

// Submission tracks a single pass through the pipeline.
type Submission struct {
	state State
	trail []State
}

func (s *Submission) State() State { return s.state }

// Trail lists every state entered after Idle, in order.
func (s *Submission) Trail() []State {
	out := make([]State, len(s.trail))
	copy(out, s.trail)
	return out
}

func (s *Submission) transition(to State) error {
	for _, next := range transitions[s.state] {
		if next == to {
			s.state = to
			s.trail = append(s.trail, to)
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
}
