// Package render draws the Stats screen.
package render

import (
	"fmt"

	"github.com/sweeney/airfish/internal/display"
	"github.com/sweeney/airfish/internal/logic"
)

// Title is the header text.
const Title = "AIRFISH"

// Comfort box geometry.
const (
	BoxX = 70
	BoxY = 18
	BoxW = 58
	BoxH = 26
)

// Stats clears f and draws the full Stats layout for s. It returns the
// computed spread and classification.
func Stats(f *display.Frame, s logic.Sample) (float64, logic.Comfort) {
	spread := logic.Spread(s.TemperatureC, s.HumidityPct)
	comfort := logic.Classify(spread)

	f.Clear()

	f.Line(0, 14, 128, 14, true)
	f.Text(40, 4, 1, true, Title)

	x := f.Text(4, 25, 2, true, fmt.Sprintf("%.1f", s.TemperatureC))
	f.Text(x, 25, 1, true, "C")

	f.Text(4, 50, 1, true, fmt.Sprintf("Hum:%.0f%%", s.HumidityPct))
	f.Text(64, 50, 1, true, fmt.Sprintf("Pre:%.0f", s.PressureHPa))

	// Wet is a filled box with inverted text; good is an outline.
	ink := true
	if comfort == logic.ComfortWet {
		f.FillRect(BoxX, BoxY, BoxW, BoxH, true)
		ink = false
	} else {
		f.Rect(BoxX, BoxY, BoxW, BoxH, true)
	}
	f.Text(BoxX+4, BoxY+5, 1, ink, string(comfort))
	f.Text(BoxX+4, BoxY+15, 1, ink, fmt.Sprintf("Dp:%.1f", spread))

	return spread, comfort
}
