package status

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Mode          string       `json:"mode"`
	Reading       *ReadingJSON `json:"reading,omitempty"`
	Walker        PointJSON    `json:"walker"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of a sample and its comfort.
type ReadingJSON struct {
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
	PressureHPa  float64 `json:"pressure_hpa"`
	DewPointC    float64 `json:"dew_point_c"`
	Spread       float64 `json:"spread"`
	Comfort      string  `json:"comfort"`
}

// PointJSON is the JSON representation of the walker position.
type PointJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ConfigJSON is the JSON representation of device config.
type ConfigJSON struct {
	PollMs     int64  `json:"poll_ms"`
	StepMs     int64  `json:"step_ms"`
	TimeoutMs  int64  `json:"timeout_ms"`
	SensorAddr string `json:"sensor_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	mode := string(snap.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	inner := StatusInner{
		Mode:          mode,
		Walker:        PointJSON{X: snap.Walker.X, Y: snap.Walker.Y},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Config: ConfigJSON{
			PollMs:    snap.Config.PollMs,
			StepMs:    snap.Config.StepMs,
			TimeoutMs: snap.Config.TimeoutMs,
		},
	}
	if snap.Config.SensorAddr != 0 {
		inner.Config.SensorAddr = fmt.Sprintf("%#x", snap.Config.SensorAddr)
	}
	if snap.HasSample {
		inner.Reading = &ReadingJSON{
			TemperatureC: round2(snap.Sample.TemperatureC),
			HumidityPct:  round2(snap.Sample.HumidityPct),
			PressureHPa:  round2(snap.Sample.PressureHPa),
			DewPointC:    round2(snap.DewPoint()),
			Spread:       round2(snap.Spread()),
			Comfort:      string(snap.Comfort()),
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatLine returns the compact single-line JSON status.
func FormatLine(snap Snapshot) []byte {
	data, _ := json.Marshal(StatusJSON{Status: buildInner(snap)})
	return data
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
