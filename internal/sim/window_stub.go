//go:build !cgo

package sim

import (
	"errors"
	"time"
)

// TickFunc runs one device tick.
type TickFunc func(now time.Time, pressed bool) error

// Run is unavailable without cgo.
func Run(_ *Panel, _ *Sensor, _ TickFunc) error {
	return errors.New("simulator requires cgo (build with CGO_ENABLED=1)")
}
