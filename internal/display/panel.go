package display

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
)

// Panel shows frames on a physical or simulated screen.
type Panel interface {
	// Present flushes the frame to the screen.
	Present(f *Frame) error

	// Close blanks and releases the screen.
	Close() error
}

// SSD1306 is a Panel backed by an SSD1306 OLED on an I2C bus.
type SSD1306 struct {
	dev *ssd1306.Dev
}

// NewSSD1306 initialises an SSD1306 of the given size on the bus.
func NewSSD1306(bus i2c.Bus, width, height int) (*SSD1306, error) {
	opts := ssd1306.DefaultOpts
	opts.W = width
	opts.H = height

	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return &SSD1306{dev: dev}, nil
}

// Present writes the whole frame to the panel.
func (p *SSD1306) Present(f *Frame) error {
	if err := p.dev.Draw(p.dev.Bounds(), f.Image(), f.Image().Bounds().Min); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}

// Close blanks the panel and turns it off.
func (p *SSD1306) Close() error {
	blank := NewFrame(p.dev.Bounds().Dx(), p.dev.Bounds().Dy())
	return errors.Join(p.Present(blank), p.dev.Halt())
}

// FakePanel is a test double that records presented frames.
type FakePanel struct {
	// Frames holds a copy of every presented frame, oldest first.
	Frames []*Frame

	// PresentError, if set, will be returned by Present.
	PresentError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePanel creates a FakePanel for testing.
func NewFakePanel() *FakePanel {
	return &FakePanel{}
}

// Present records a copy of the frame.
func (p *FakePanel) Present(f *Frame) error {
	if p.PresentError != nil {
		return p.PresentError
	}
	p.Frames = append(p.Frames, f.Clone())
	return nil
}

// Last returns the most recently presented frame, or nil.
func (p *FakePanel) Last() *Frame {
	if len(p.Frames) == 0 {
		return nil
	}
	return p.Frames[len(p.Frames)-1]
}

// Close marks the panel as closed.
func (p *FakePanel) Close() error {
	p.Closed = true
	return nil
}
