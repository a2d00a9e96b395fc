package logic

import "time"

// Machine tracks the presentation mode and the time of the last button
// press. Not safe for concurrent use.
type Machine struct {
	mode      Mode
	timeout   time.Duration
	lastPress time.Time
	walker    *Walker
}

// NewMachine creates a state machine in Stats mode. startTime counts as the
// last press, so the first timeout is measured from startup.
func NewMachine(timeout time.Duration, walker *Walker, startTime time.Time) *Machine {
	return &Machine{
		mode:      ModeStats,
		timeout:   timeout,
		lastPress: startTime,
		walker:    walker,
	}
}

// Process takes a new button sample and returns the transition it caused.
//
// A press always refreshes the press time and returns Walker mode to Stats.
// Stats mode falls through to Walker once more than the timeout has passed
// since the last press; entering Walker resets the walker to the centre.
// Walker mode never ends by time alone.
func (m *Machine) Process(input Input) Transition {
	transition := TransitionNone

	if input.Pressed {
		m.lastPress = input.Time
		if m.mode == ModeWalker {
			m.mode = ModeStats
			transition = TransitionToStats
		}
	}

	if m.mode == ModeStats && input.Time.Sub(m.lastPress) > m.timeout {
		m.mode = ModeWalker
		if m.walker != nil {
			m.walker.Reset()
		}
		transition = TransitionToWalker
	}

	return transition
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.mode
}

// LastPress returns the time of the last observed press (or startup).
func (m *Machine) LastPress() time.Time {
	return m.lastPress
}
