package sensor

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"

	"github.com/sweeney/airfish/internal/logic"
)

// BME280 reads a Bosch BME280 over I2C.
type BME280 struct {
	dev  *bmxx80.Dev
	addr uint16
}

// NewBME280 probes each address in turn and returns the first sensor that
// initialises. If none do, the returned error wraps ErrNotFound together
// with every probe failure.
func NewBME280(bus i2c.Bus, addrs ...uint16) (*BME280, error) {
	if len(addrs) == 0 {
		addrs = DefaultAddrs
	}

	var errs []error
	for _, addr := range addrs {
		dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
		if err != nil {
			errs = append(errs, fmt.Errorf("addr %#x: %w", addr, err))
			continue
		}
		return &BME280{dev: dev, addr: addr}, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrNotFound, errors.Join(errs...))
}

// Addr returns the I2C address the sensor answered on.
func (s *BME280) Addr() uint16 {
	return s.addr
}

// Read performs one forced measurement.
func (s *BME280) Read() (logic.Sample, error) {
	var env physic.Env
	if err := s.dev.Sense(&env); err != nil {
		return logic.Sample{}, fmt.Errorf("bme280 sense: %w", err)
	}
	return FromEnv(env), nil
}

// Close halts the sensor.
func (s *BME280) Close() error {
	return s.dev.Halt()
}
