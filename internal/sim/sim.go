// Package sim runs the device in a desktop window: the frame is shown
// scaled up, the space bar is the button and the arrow keys drive a
// synthetic sensor.
package sim

import (
	"github.com/sweeney/airfish/internal/display"
	"github.com/sweeney/airfish/internal/logic"
)

// Sensor is an adjustable in-memory sensor.
type Sensor struct {
	sample logic.Sample
}

// NewSensor creates a sensor reporting s until adjusted.
func NewSensor(s logic.Sample) *Sensor {
	return &Sensor{sample: s}
}

// Read returns the current synthetic sample.
func (s *Sensor) Read() (logic.Sample, error) {
	return s.sample, nil
}

// Close does nothing.
func (s *Sensor) Close() error {
	return nil
}

// Adjust shifts temperature and humidity. Humidity stays within [0, 100].
func (s *Sensor) Adjust(dTempC, dHumidityPct float64) logic.Sample {
	s.sample.TemperatureC += dTempC
	s.sample.HumidityPct = min(max(s.sample.HumidityPct+dHumidityPct, 0), 100)
	return s.sample
}

// Panel keeps the last presented frame for the window to draw.
type Panel struct {
	frame *display.Frame
}

// NewPanel creates a blank panel of the given size.
func NewPanel(width, height int) *Panel {
	return &Panel{frame: display.NewFrame(width, height)}
}

// Present stores a copy of f.
func (p *Panel) Present(f *display.Frame) error {
	p.frame = f.Clone()
	return nil
}

// Close does nothing.
func (p *Panel) Close() error {
	return nil
}

// Foreground is the RGBA colour of lit pixels.
var Foreground = [4]byte{0x9e, 0xe7, 0xff, 0xff}

// RGBA writes the stored frame into dst as 8-bit RGBA, four bytes per
// pixel in row-major order. dst must hold width*height*4 bytes.
func (p *Panel) RGBA(dst []byte) {
	w, h := p.frame.Width(), p.frame.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if i+3 >= len(dst) {
				return
			}
			if p.frame.Pixel(x, y) {
				copy(dst[i:i+4], Foreground[:])
			} else {
				dst[i], dst[i+1], dst[i+2], dst[i+3] = 0, 0, 0, 0xff
			}
		}
	}
}
