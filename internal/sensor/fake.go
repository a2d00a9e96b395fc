package sensor

import (
	"errors"

	"github.com/sweeney/airfish/internal/logic"
)

// FakeSensor is a test double that returns scripted samples.
type FakeSensor struct {
	// Samples contains scripted readings.
	// Each call to Read() consumes the next sample.
	Samples []logic.Sample

	// index tracks current position in Samples
	index int

	// Reads counts calls to Read.
	Reads int

	// ReadError, if set, will be returned by Read()
	ReadError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples ...logic.Sample) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSensor) Read() (logic.Sample, error) {
	f.Reads++
	if f.ReadError != nil {
		return logic.Sample{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return logic.Sample{}, errors.New("no samples configured")
	}

	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}
