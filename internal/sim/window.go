//go:build cgo

package sim

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/sweeney/airfish/internal/logic"
)

// Scale is the window magnification.
const Scale = 4

// TickFunc runs one device tick.
type TickFunc func(now time.Time, pressed bool) error

// Run opens the simulator window and calls tick once per window update.
// It blocks until the window is closed or tick returns an error.
func Run(panel *Panel, sensor *Sensor, tick TickFunc) error {
	g := &game{panel: panel, sensor: sensor, tick: tick}
	ebiten.SetWindowTitle("airfish")
	ebiten.SetWindowSize(logic.Width*Scale, logic.Height*Scale)
	ebiten.SetTPS(100)
	return ebiten.RunGame(g)
}

type game struct {
	panel  *Panel
	sensor *Sensor
	tick   TickFunc
	img    *ebiten.Image
	pix    []byte
}

func (g *game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.sensor.Adjust(0, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.sensor.Adjust(0, -1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.sensor.Adjust(0.5, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.sensor.Adjust(-0.5, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return g.tick(time.Now(), ebiten.IsKeyPressed(ebiten.KeySpace))
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.img == nil {
		g.img = ebiten.NewImage(logic.Width, logic.Height)
		g.pix = make([]byte, logic.Width*logic.Height*4)
	}
	g.panel.RGBA(g.pix)
	g.img.WritePixels(g.pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return logic.Width, logic.Height
}
