// Package device runs one control-loop tick: button sample, mode
// transition, then exactly one of the Stats render or the walker step,
// followed by a display flush.
package device

import (
	"fmt"
	"time"

	"github.com/sweeney/airfish/internal/display"
	"github.com/sweeney/airfish/internal/logic"
	"github.com/sweeney/airfish/internal/render"
	"github.com/sweeney/airfish/internal/sensor"
)

// Result describes what a tick did.
type Result struct {
	Mode       logic.Mode
	Transition logic.Transition

	// Stats mode only.
	Sample  logic.Sample
	Spread  float64
	Comfort logic.Comfort

	// Walker mode only.
	Step logic.StepResult
}

// Controller owns the device state and its peripherals.
// Not safe for concurrent use.
type Controller struct {
	machine *logic.Machine
	walker  *logic.Walker
	sensor  sensor.Sensor
	panel   display.Panel
	frame   *display.Frame
}

// New creates a Controller in Stats mode. startTime counts as the last
// button press.
func New(s sensor.Sensor, p display.Panel, walker *logic.Walker, timeout time.Duration, startTime time.Time) *Controller {
	return &Controller{
		machine: logic.NewMachine(timeout, walker, startTime),
		walker:  walker,
		sensor:  s,
		panel:   p,
		frame:   display.NewFrame(logic.Width, logic.Height),
	}
}

// Mode returns the current mode.
func (c *Controller) Mode() logic.Mode {
	return c.machine.Mode()
}

// Position returns the walker position.
func (c *Controller) Position() logic.Point {
	return c.walker.Position()
}

// Frame returns the frame buffer the controller draws into.
func (c *Controller) Frame() *display.Frame {
	return c.frame
}

// Tick runs one iteration of the control loop at time now.
// I/O errors abort the rest of the tick; the state machine has already
// advanced, so the next tick proceeds normally.
func (c *Controller) Tick(now time.Time, pressed bool) (Result, error) {
	res := Result{
		Transition: c.machine.Process(logic.Input{Pressed: pressed, Time: now}),
	}
	res.Mode = c.machine.Mode()

	if res.Transition == logic.TransitionToWalker {
		c.frame.Clear()
		if err := c.panel.Present(c.frame); err != nil {
			return res, fmt.Errorf("clear for walker: %w", err)
		}
	}

	switch res.Mode {
	case logic.ModeStats:
		sample, err := c.sensor.Read()
		if err != nil {
			return res, fmt.Errorf("read sensor: %w", err)
		}
		res.Sample = sample
		res.Spread, res.Comfort = render.Stats(c.frame, sample)
		if err := c.panel.Present(c.frame); err != nil {
			return res, fmt.Errorf("present stats: %w", err)
		}

	case logic.ModeWalker:
		res.Step = c.walker.Step(now)
		if !res.Step.Moved {
			return res, nil
		}
		c.frame.SetPixel(res.Step.Pos.X, res.Step.Pos.Y, true)
		if err := c.panel.Present(c.frame); err != nil {
			return res, fmt.Errorf("present walker: %w", err)
		}
	}

	return res, nil
}
