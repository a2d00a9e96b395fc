package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/airfish/internal/device"
	"github.com/sweeney/airfish/internal/display"
	"github.com/sweeney/airfish/internal/gpio"
	"github.com/sweeney/airfish/internal/logic"
	"github.com/sweeney/airfish/internal/sensor"
	"github.com/sweeney/airfish/internal/status"
)

var startTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClock returns a function that yields start, start+step, start+2*step, ...
// on successive calls. Not safe for concurrent use (only called from runLoop's goroutine).
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := start.Add(time.Duration(n) * step)
		n++
		return t
	}
}

// repeat returns n copies of pressed.
func repeat(pressed bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = pressed
	}
	return out
}

// upSteps always steps +1 on both axes.
type upSteps struct{}

func (upSteps) Step() int { return 1 }

type logRecord struct {
	Level      string `json:"level"`
	Msg        string `json:"msg"`
	Mode       string `json:"mode"`
	Transition string `json:"transition"`
	Signal     string `json:"signal"`
	Status     string `json:"status"`
	Err        string `json:"err"`
}

func parseLogs(t *testing.T, buf *bytes.Buffer) []logRecord {
	t.Helper()
	var out []logRecord
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var r logRecord
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, r)
	}
	return out
}

func countMsg(recs []logRecord, msg string) int {
	n := 0
	for _, r := range recs {
		if r.Msg == msg {
			n++
		}
	}
	return n
}

type harness struct {
	button *gpio.FakeButton
	sensor *sensor.FakeSensor
	panel  *display.FakePanel
	ctrl   *device.Controller
	logs   *bytes.Buffer
	logger *slog.Logger
}

func newHarness(t *testing.T, presses []bool) *harness {
	t.Helper()
	h := &harness{
		button: gpio.NewFakeButton(presses),
		sensor: sensor.NewFakeSensor(logic.Sample{TemperatureC: 20, HumidityPct: 50, PressureHPa: 1013}),
		panel:  display.NewFakePanel(),
		logs:   &bytes.Buffer{},
	}
	h.logger = slog.New(slog.NewJSONHandler(h.logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	w := logic.NewWalker(logic.Width, logic.Height, 10*time.Millisecond, upSteps{})
	h.ctrl = device.New(h.sensor, h.panel, w, logic.ScreenTimeout, startTime)
	return h
}

// runRunLoop drives runLoop with nTicks ticks and then the given signal.
func runRunLoop(t *testing.T, h *harness, button gpio.Button, clock func() time.Time, nTicks int, signal os.Signal) error {
	t.Helper()
	tick := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(button, h.ctrl, h.logger, status.Config{PollMs: 2}, clock, tick, sig)
	}()

	for i := 0; i < nTicks; i++ {
		tick <- time.Time{}
	}
	sig <- signal

	return <-errCh
}

func TestRunLoopStaysInStatsBeforeTimeout(t *testing.T) {
	// 10 ticks at 1s each: the last tick is at +10s, not past the timeout.
	h := newHarness(t, repeat(false, 11))
	clock := fakeClock(startTime, time.Second)

	if err := runRunLoop(t, h, h.button, clock, 10, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if h.ctrl.Mode() != logic.ModeStats {
		t.Errorf("mode %s, want %s", h.ctrl.Mode(), logic.ModeStats)
	}
	if h.sensor.Reads != 10 {
		t.Errorf("sensor reads: got %d, want 10", h.sensor.Reads)
	}
	if n := countMsg(parseLogs(t, h.logs), "mode change"); n != 0 {
		t.Errorf("expected no mode changes, got %d", n)
	}
}

func TestRunLoopTimeoutToWalker(t *testing.T) {
	// Clock calls: startTime (loop start), then one per tick.
	h := newHarness(t, repeat(false, 20))
	clock := fakeClock(startTime, time.Second)

	if err := runRunLoop(t, h, h.button, clock, 12, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if h.ctrl.Mode() != logic.ModeWalker {
		t.Fatalf("mode %s, want %s", h.ctrl.Mode(), logic.ModeWalker)
	}

	recs := parseLogs(t, h.logs)
	var changes []logRecord
	for _, r := range recs {
		if r.Msg == "mode change" {
			changes = append(changes, r)
		}
	}
	if len(changes) != 1 {
		t.Fatalf("expected 1 mode change, got %d", len(changes))
	}
	if changes[0].Mode != "WALKER" || changes[0].Transition != "TO_WALKER" {
		t.Errorf("unexpected mode change record: %+v", changes[0])
	}

	// The walker started from the centre and has stepped at least once.
	last := h.panel.Last()
	if last == nil || !last.Pixel(65, 33) {
		t.Error("expected first walker pixel at (65,33)")
	}
}

func TestRunLoopPressReturnsToStats(t *testing.T) {
	// 12 idle ticks reach walker mode, the 13th tick presses.
	presses := append(repeat(false, 12), true, false)
	h := newHarness(t, presses)
	clock := fakeClock(startTime, time.Second)

	if err := runRunLoop(t, h, h.button, clock, 14, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if h.ctrl.Mode() != logic.ModeStats {
		t.Fatalf("mode %s, want %s", h.ctrl.Mode(), logic.ModeStats)
	}
	if n := countMsg(parseLogs(t, h.logs), "mode change"); n != 2 {
		t.Errorf("expected 2 mode changes, got %d", n)
	}
}

func TestRunLoopButtonErrorContinues(t *testing.T) {
	h := newHarness(t, repeat(false, 4))
	h.button.ReadError = errors.New("gpio fault")
	clock := fakeClock(startTime, 100*time.Millisecond)

	if err := runRunLoop(t, h, h.button, clock, 4, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	recs := parseLogs(t, h.logs)
	if n := countMsg(recs, "button read error"); n != 1 {
		t.Errorf("expected a repeated button error to be logged once, got %d", n)
	}
	if h.sensor.Reads != 0 {
		t.Error("ticks with a button error should be skipped")
	}
	if countMsg(recs, "shutting down") != 1 {
		t.Error("expected shutdown log after button errors")
	}
}

func TestRunLoopSensorErrorRecovery(t *testing.T) {
	h := newHarness(t, repeat(false, 6))
	h.sensor.ReadError = errors.New("i2c nack")
	clock := fakeClock(startTime, 100*time.Millisecond)

	if err := runRunLoop(t, h, h.button, clock, 3, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if n := countMsg(parseLogs(t, h.logs), "tick error"); n != 1 {
		t.Errorf("expected a repeated tick error to be logged once, got %d", n)
	}
	if len(h.panel.Frames) != 0 {
		t.Error("no frame should be presented without a reading")
	}

	// The same controller keeps working once the sensor answers again.
	h.sensor.ReadError = nil
	h.logs.Reset()
	if err := runRunLoop(t, h, h.button, fakeClock(startTime.Add(time.Second), 100*time.Millisecond), 3, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(h.panel.Frames) != 3 {
		t.Errorf("expected 3 frames after recovery, got %d", len(h.panel.Frames))
	}
}

func TestRunLoopShutdownStatus(t *testing.T) {
	for _, tt := range []struct {
		sig  os.Signal
		name string
	}{
		{syscall.SIGINT, "SIGINT"},
		{syscall.SIGTERM, "SIGTERM"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, repeat(false, 2))
			clock := fakeClock(startTime, 100*time.Millisecond)

			if err := runRunLoop(t, h, h.button, clock, 2, tt.sig); err != nil {
				t.Fatalf("runLoop returned error: %v", err)
			}

			var shutdown *logRecord
			recs := parseLogs(t, h.logs)
			for i := range recs {
				if recs[i].Msg == "shutting down" {
					shutdown = &recs[i]
				}
			}
			if shutdown == nil {
				t.Fatal("expected shutdown log")
			}
			if shutdown.Signal != tt.name {
				t.Errorf("signal: got %q, want %q", shutdown.Signal, tt.name)
			}

			var st status.StatusJSON
			if err := json.Unmarshal([]byte(shutdown.Status), &st); err != nil {
				t.Fatalf("status attr is not JSON: %v (%q)", err, shutdown.Status)
			}
			if st.Status.Mode != "STATS" {
				t.Errorf("status mode: got %q, want STATS", st.Status.Mode)
			}
			if st.Status.Reading == nil || st.Status.Reading.Comfort != "GOOD" {
				t.Errorf("status reading: got %+v, want GOOD", st.Status.Reading)
			}
		})
	}
}

func newTestTickLogger(buf *bytes.Buffer) *tickLogger {
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return newTickLogger(logger, time.Second)
}

func TestTickLoggerClampWarns(t *testing.T) {
	var buf bytes.Buffer
	tl := newTestTickLogger(&buf)

	tl.tick(startTime, device.Result{
		Mode: logic.ModeWalker,
		Step: logic.StepResult{Moved: true, Clamped: true, Pos: logic.Point{X: 0, Y: 5}},
	}, nil)

	recs := parseLogs(t, &buf)
	if len(recs) != 1 || recs[0].Level != "WARN" || recs[0].Msg != "walker clamp corrected position" {
		t.Errorf("unexpected logs: %+v", recs)
	}
}

func TestTickLoggerQuietWalker(t *testing.T) {
	var buf bytes.Buffer
	tl := newTestTickLogger(&buf)

	for i := 0; i < 5; i++ {
		tl.tick(startTime.Add(time.Duration(i)*time.Second), device.Result{Mode: logic.ModeWalker, Step: logic.StepResult{Moved: true}}, nil)
	}

	if buf.Len() != 0 {
		t.Errorf("expected no logs for plain walker ticks, got %q", buf.String())
	}
}

func TestTickLoggerReadingRateLimited(t *testing.T) {
	var buf bytes.Buffer
	tl := newTestTickLogger(&buf)

	// 1500 Stats ticks at the default 2ms poll span 2.998s.
	clock := fakeClock(startTime, 2*time.Millisecond)
	res := device.Result{Mode: logic.ModeStats, Comfort: logic.ComfortGood}
	for i := 0; i < 1500; i++ {
		tl.tick(clock(), res, nil)
	}

	recs := parseLogs(t, &buf)
	if n := countMsg(recs, "reading"); n != 3 {
		t.Errorf("expected 3 reading logs (0s, 1s, 2s), got %d", n)
	}
	for _, r := range recs {
		if r.Msg == "reading" && r.Level != "DEBUG" {
			t.Errorf("reading logged at %s, want DEBUG", r.Level)
		}
	}
}

func TestTickLoggerErrorOnceThenRecovery(t *testing.T) {
	var buf bytes.Buffer
	tl := newTestTickLogger(&buf)
	stats := device.Result{Mode: logic.ModeStats}
	nack := errors.New("read sensor: i2c nack")

	for i := 0; i < 100; i++ {
		tl.tick(startTime, stats, nack)
	}
	tl.tick(startTime, stats, errors.New("read sensor: timeout"))
	tl.tick(startTime, stats, nil)
	tl.tick(startTime, stats, nil)

	recs := parseLogs(t, &buf)
	if n := countMsg(recs, "tick error"); n != 2 {
		t.Errorf("expected one tick error per distinct failure, got %d", n)
	}
	if n := countMsg(recs, "tick recovered"); n != 1 {
		t.Errorf("expected 1 recovery log, got %d", n)
	}
}

func TestTickLoggerButtonErrorOnceThenRecovery(t *testing.T) {
	var buf bytes.Buffer
	tl := newTestTickLogger(&buf)
	fault := errors.New("gpio fault")

	tl.button(nil)
	for i := 0; i < 500; i++ {
		tl.button(fault)
	}
	tl.button(nil)
	tl.button(nil)
	tl.button(fault)

	recs := parseLogs(t, &buf)
	if n := countMsg(recs, "button read error"); n != 2 {
		t.Errorf("expected 2 button errors (one per failure run), got %d", n)
	}
	if n := countMsg(recs, "button read recovered"); n != 1 {
		t.Errorf("expected 1 recovery log, got %d", n)
	}
}

func TestSignalName(t *testing.T) {
	if got := signalName(syscall.SIGINT); got != "SIGINT" {
		t.Errorf("SIGINT: got %q", got)
	}
	if got := signalName(syscall.SIGHUP); got != "UNKNOWN" {
		t.Errorf("SIGHUP: got %q, want UNKNOWN", got)
	}
}
