// Package sensor reads temperature, humidity and pressure from a BME280.
package sensor

import (
	"errors"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/airfish/internal/logic"
)

// Sensor reads environmental samples.
type Sensor interface {
	// Read returns a fresh sample. Readings are not cached.
	Read() (logic.Sample, error)

	// Close halts the sensor.
	Close() error
}

// DefaultAddrs are the BME280 I2C addresses, tried in order.
var DefaultAddrs = []uint16{0x76, 0x77}

// ErrNotFound is returned when no sensor answers at any address.
var ErrNotFound = errors.New("sensor: no BME280 found")

// FromEnv converts a periph measurement to a Sample in °C, %RH and hPa.
func FromEnv(env physic.Env) logic.Sample {
	return logic.Sample{
		TemperatureC: env.Temperature.Celsius(),
		HumidityPct:  float64(env.Humidity) / float64(physic.PercentRH),
		PressureHPa:  float64(env.Pressure) / float64(physic.Pascal) / 100.0,
	}
}
