package logic

import (
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// ErrInvalidSpeed is returned by StepInterval for non-positive speeds.
var ErrInvalidSpeed = errors.New("walk speed must be positive")

// StepInterval converts a logical walk speed into the minimum time between
// walker steps: round(100 / speed) milliseconds.
func StepInterval(speed float64) (time.Duration, error) {
	if !(speed > 0) {
		return 0, ErrInvalidSpeed
	}
	return time.Duration(math.Round(100.0/speed)) * time.Millisecond, nil
}

// StepSource yields per-axis steps in {-1, 0, +1}.
type StepSource interface {
	Step() int
}

type randomSteps struct{}

func (randomSteps) Step() int {
	return rand.IntN(3) - 1
}

// RandomSteps returns a StepSource drawing uniformly from {-1, 0, +1}.
func RandomSteps() StepSource {
	return randomSteps{}
}

// Walker is a reflecting random walk over a width x height pixel grid.
// Not safe for concurrent use.
type Walker struct {
	max      Point
	pos      Point
	interval time.Duration
	lastStep time.Time
	steps    StepSource
}

// NewWalker creates a walker centred on a width x height grid.
// A nil steps uses RandomSteps.
func NewWalker(width, height int, interval time.Duration, steps StepSource) *Walker {
	if steps == nil {
		steps = RandomSteps()
	}
	w := &Walker{
		max:      Point{X: width - 1, Y: height - 1},
		interval: interval,
		steps:    steps,
	}
	w.Reset()
	return w
}

// Reset moves the walker back to the centre of the grid.
func (w *Walker) Reset() {
	w.pos = Point{X: (w.max.X + 1) / 2, Y: (w.max.Y + 1) / 2}
}

// Position returns the current position.
func (w *Walker) Position() Point {
	return w.pos
}

// Interval returns the minimum time between steps.
func (w *Walker) Interval() time.Duration {
	return w.interval
}

// Step advances the walker by one reflected step if more than the step
// interval has elapsed since the last accepted step. Otherwise it returns
// a result with Moved=false and leaves all state untouched.
func (w *Walker) Step(now time.Time) StepResult {
	if !w.lastStep.IsZero() && now.Sub(w.lastStep) <= w.interval {
		return StepResult{Pos: w.pos}
	}
	w.lastStep = now

	stepX := w.steps.Step()
	stepY := w.steps.Step()

	x, clampedX := Advance(w.pos.X, stepX, w.max.X)
	y, clampedY := Advance(w.pos.Y, stepY, w.max.Y)
	w.pos = Point{X: x, Y: y}

	return StepResult{
		Moved:   true,
		Pos:     w.pos,
		Clamped: clampedX || clampedY,
	}
}

// Reflect negates a step that would leave [0, max] from an edge.
func Reflect(coord, step, max int) int {
	if (coord <= 0 && step == -1) || (coord >= max && step == 1) {
		return -step
	}
	return step
}

// Advance reflects and applies step to coord, then clamps the result to
// [0, max]. clamped reports whether the clamp changed the reflected value.
func Advance(coord, step, max int) (next int, clamped bool) {
	moved := coord + Reflect(coord, step, max)
	next = moved
	if next < 0 {
		next = 0
	}
	if next > max {
		next = max
	}
	return next, next != moved
}
