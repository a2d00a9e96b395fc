// Package display provides a 1-bit frame buffer with the drawing primitives
// the device screens need, and the panels that show it.
package display

import (
	"image"
	"image/color"

	"periph.io/x/devices/v3/ssd1306/image1bit"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var font = &proggy.TinySZ8pt7b

// Glyph metrics for the text font at scale 1. The cursor passed to Text is
// the top-left corner of the line; fontAscent moves it to the baseline.
var fontAscent, fontHeight = fontMetrics(font)

// fontMetrics measures the tallest ascent and deepest descent over the
// printable ASCII glyphs.
func fontMetrics(f tinyfont.Fonter) (ascent, height int) {
	descent := 0
	for r := rune(0x21); r < 0x7f; r++ {
		info := f.GetGlyph(r).Info()
		top := -int(info.YOffset)
		bottom := int(info.YOffset) + int(info.Height)
		if top > ascent {
			ascent = top
		}
		if bottom > descent {
			descent = bottom
		}
	}
	return ascent, ascent + descent
}

// Frame is a monochrome frame buffer. Pixels outside the bounds are
// silently dropped by every primitive. Not safe for concurrent use.
type Frame struct {
	img *image1bit.VerticalLSB
}

// NewFrame creates a cleared frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{img: image1bit.NewVerticalLSB(image.Rect(0, 0, width, height))}
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.img.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.img.Rect.Dy() }

// Image returns the underlying image, in the SSD1306 page layout.
func (f *Frame) Image() image.Image { return f.img }

// Clear turns every pixel off.
func (f *Frame) Clear() {
	clear(f.img.Pix)
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	c := NewFrame(f.Width(), f.Height())
	copy(c.img.Pix, f.img.Pix)
	return c
}

// SetPixel sets one pixel.
func (f *Frame) SetPixel(x, y int, on bool) {
	if !image.Pt(x, y).In(f.img.Rect) {
		return
	}
	f.img.SetBit(x, y, image1bit.Bit(on))
}

// Pixel reports whether a pixel is on. Out-of-bounds pixels are off.
func (f *Frame) Pixel(x, y int) bool {
	if !image.Pt(x, y).In(f.img.Rect) {
		return false
	}
	return bool(f.img.BitAt(x, y))
}

// CountOn returns the number of pixels that are on.
func (f *Frame) CountOn() int {
	n := 0
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			if f.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

// Line draws a straight line between two points, endpoints included.
func (f *Frame) Line(x0, y0, x1, y1 int, on bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		f.SetPixel(x0, y0, on)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Rect draws the outline of a w x h rectangle with its top-left at (x, y).
func (f *Frame) Rect(x, y, w, h int, on bool) {
	if w <= 0 || h <= 0 {
		return
	}
	f.Line(x, y, x+w-1, y, on)
	f.Line(x, y+h-1, x+w-1, y+h-1, on)
	f.Line(x, y, x, y+h-1, on)
	f.Line(x+w-1, y, x+w-1, y+h-1, on)
}

// FillRect fills a w x h rectangle with its top-left at (x, y).
func (f *Frame) FillRect(x, y, w, h int, on bool) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			f.SetPixel(px, py, on)
		}
	}
}

// Text draws s with its top-left corner at (x, y), each font pixel scaled
// to a scale x scale block. It returns the x coordinate just past the text,
// so consecutive calls continue on the same line.
func (f *Frame) Text(x, y, scale int, on bool, s string) int {
	if scale < 1 {
		scale = 1
	}
	c := &glyphCanvas{frame: f, x: x, y: y, scale: scale, on: on}
	tinyfont.WriteLine(c, font, 0, int16(fontAscent), s, color.RGBA{A: 0xff})
	_, outbox := tinyfont.LineWidth(font, s)
	return x + int(outbox)*scale
}

// TextHeight returns the line height of text drawn at the given scale.
func TextHeight(scale int) int {
	if scale < 1 {
		scale = 1
	}
	return fontHeight * scale
}

// glyphCanvas adapts a Frame region to the tinyfont drawing target.
// Glyphs are drawn in local coordinates and mapped to scaled frame blocks.
type glyphCanvas struct {
	frame *Frame
	x, y  int
	scale int
	on    bool
}

var _ drivers.Displayer = (*glyphCanvas)(nil)

func (c *glyphCanvas) Size() (x, y int16) {
	return int16(c.frame.Width()), int16(c.frame.Height())
}

func (c *glyphCanvas) SetPixel(x, y int16, _ color.RGBA) {
	px := c.x + int(x)*c.scale
	py := c.y + int(y)*c.scale
	c.frame.FillRect(px, py, c.scale, c.scale, c.on)
}

func (c *glyphCanvas) Display() error {
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
