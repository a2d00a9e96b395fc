// Package logic contains the pure device logic: comfort classification,
// the reflecting random walk and the Stats/Walker mode state machine.
// This package has NO external dependencies (no GPIO, I2C, display or OS).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Display and timing constants. These are fixed at build time.
const (
	Width  = 128
	Height = 64

	// WalkSpeed is the logical walker speed: 0.1 is a crawl, 100 is a blur.
	WalkSpeed = 10.0

	// ScreenTimeout is the idle time in Stats mode before the walker starts.
	ScreenTimeout = 10 * time.Second

	// ComfortThreshold is the largest spread (°C) still classified as wet.
	ComfortThreshold = 3.0
)

// Mode is the active presentation mode.
type Mode string

const (
	ModeStats  Mode = "STATS"
	ModeWalker Mode = "WALKER"
)

// Transition describes a mode change produced by a single Process call.
type Transition string

const (
	TransitionNone     Transition = ""
	TransitionToStats  Transition = "TO_STATS"
	TransitionToWalker Transition = "TO_WALKER"
)

// Comfort is the condensation-risk classification of a spread.
type Comfort string

const (
	ComfortGood Comfort = "GOOD"
	ComfortWet  Comfort = "WET ROCK"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int
	Y int
}

// Sample is a single environmental reading.
type Sample struct {
	TemperatureC float64
	HumidityPct  float64
	PressureHPa  float64
}

// Input represents a single button sample.
type Input struct {
	Pressed bool // logical state, already inverted from the active-low pin
	Time    time.Time
}

// StepResult reports the outcome of one Walker.Step call.
type StepResult struct {
	// Moved is false when the call was time-gated and nothing changed.
	Moved bool
	// Pos is the position after the step (unchanged when Moved is false).
	Pos Point
	// Clamped is true if the bounds clamp had to correct the reflected step.
	// Reflection alone keeps the walker in bounds, so this indicates a bug.
	Clamped bool
}
