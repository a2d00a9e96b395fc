// Package status builds point-in-time views of the device for the
// --print-state output and the shutdown log.
package status

import (
	"time"

	"github.com/sweeney/airfish/internal/logic"
)

// Config contains device configuration for display.
type Config struct {
	PollMs     int64
	StepMs     int64
	TimeoutMs  int64
	SensorAddr uint16
}

// Snapshot is a point-in-time view of device state.
// It is a value type; Sample is only meaningful when HasSample is set.
type Snapshot struct {
	Mode      logic.Mode
	Sample    logic.Sample
	HasSample bool
	Walker    logic.Point
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the device started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// DewPoint returns the dew point of the sample.
func (s Snapshot) DewPoint() float64 {
	return logic.DewPoint(s.Sample.TemperatureC, s.Sample.HumidityPct)
}

// Spread returns the temperature minus dew point of the sample.
func (s Snapshot) Spread() float64 {
	return logic.Spread(s.Sample.TemperatureC, s.Sample.HumidityPct)
}

// Comfort returns the classification of the sample.
func (s Snapshot) Comfort() logic.Comfort {
	return logic.Classify(s.Spread())
}
