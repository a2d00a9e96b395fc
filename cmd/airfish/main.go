// Command airfish drives a BME280 + SSD1306 handheld: a dew-point comfort
// screen that falls back to a random-walk screensaver when idle.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/sweeney/airfish/internal/config"
	"github.com/sweeney/airfish/internal/device"
	"github.com/sweeney/airfish/internal/display"
	"github.com/sweeney/airfish/internal/gpio"
	"github.com/sweeney/airfish/internal/logging"
	"github.com/sweeney/airfish/internal/logic"
	"github.com/sweeney/airfish/internal/sensor"
	"github.com/sweeney/airfish/internal/sim"
	"github.com/sweeney/airfish/internal/status"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// Peripheral init failures land here: the device stops, no retry.
	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	stepInterval, err := logic.StepInterval(logic.WalkSpeed)
	if err != nil {
		return err
	}
	walker := logic.NewWalker(logic.Width, logic.Height, stepInterval, nil)
	statusCfg := status.Config{
		PollMs:    cfg.Poll.Milliseconds(),
		StepMs:    stepInterval.Milliseconds(),
		TimeoutMs: logic.ScreenTimeout.Milliseconds(),
	}

	if cfg.Sim {
		return runSim(walker, logger)
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open i2c bus %q: %w", cfg.I2CBus, err)
	}
	defer bus.Close()

	bme, err := sensor.NewBME280(bus, sensor.DefaultAddrs...)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer bme.Close()
	statusCfg.SensorAddr = bme.Addr()

	if cfg.PrintState {
		sample, err := bme.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		now := time.Now()
		fmt.Println(string(status.FormatJSON(status.Snapshot{
			Mode:      logic.ModeStats,
			Sample:    sample,
			HasSample: true,
			Walker:    walker.Position(),
			StartTime: now,
			Now:       now,
			Config:    statusCfg,
		})))
		return nil
	}

	panel, err := display.NewSSD1306(bus, logic.Width, logic.Height)
	if err != nil {
		return fmt.Errorf("init display: %w", err)
	}
	defer func() {
		if err := panel.Close(); err != nil {
			logger.Warn("display close error", "err", err)
		}
	}()

	button, err := gpio.NewRealButton(cfg.GPIOChip, cfg.ButtonPin)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer button.Close()

	ctrl := device.New(bme, panel, walker, logic.ScreenTimeout, time.Now())

	logger.Info("started",
		"poll", cfg.Poll,
		"step", stepInterval,
		"timeout", logic.ScreenTimeout,
		"sensor_addr", fmt.Sprintf("%#x", bme.Addr()),
		"button", fmt.Sprintf("%s/%d", cfg.GPIOChip, cfg.ButtonPin),
	)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(button, ctrl, logger, statusCfg, time.Now, ticker.C, sigCh)
}

func runSim(walker *logic.Walker, logger *slog.Logger) error {
	env := sim.NewSensor(logic.Sample{TemperatureC: 21.0, HumidityPct: 45.0, PressureHPa: 1013.25})
	panel := sim.NewPanel(logic.Width, logic.Height)
	ctrl := device.New(env, panel, walker, logic.ScreenTimeout, time.Now())

	logger.Info("simulator started", "button", "space", "humidity", "up/down", "temperature", "left/right")
	tl := newTickLogger(logger, readingLogInterval)
	return sim.Run(panel, env, func(now time.Time, pressed bool) error {
		res, err := ctrl.Tick(now, pressed)
		tl.tick(now, res, err)
		return nil
	})
}

func runLoop(button gpio.Button, ctrl *device.Controller, logger *slog.Logger, statusCfg status.Config, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	tl := newTickLogger(logger, readingLogInterval)
	var last logic.Sample
	var hasSample bool

	for {
		select {
		case s := <-sig:
			snap := status.Snapshot{
				Mode:      ctrl.Mode(),
				Sample:    last,
				HasSample: hasSample,
				Walker:    ctrl.Position(),
				StartTime: startTime,
				Now:       now(),
				Config:    statusCfg,
			}
			logger.Info("shutting down", "signal", signalName(s), "status", string(status.FormatLine(snap)))
			return nil

		case <-tick:
			t := now()
			pressed, err := button.Pressed()
			tl.button(err)
			if err != nil {
				continue
			}

			res, err := ctrl.Tick(t, pressed)
			tl.tick(t, res, err)
			if err == nil && res.Mode == logic.ModeStats {
				last, hasSample = res.Sample, true
			}
		}
	}
}

// readingLogInterval limits the debug "reading" log to one line per second.
const readingLogInterval = time.Second

// tickLogger reports what the loop does without flooding the log at the
// poll rate. A failure that repeats with the same error is logged once,
// and its recovery once.
type tickLogger struct {
	logger       *slog.Logger
	readingEvery time.Duration
	lastReading  time.Time
	buttonErr    string
	tickErr      string
}

func newTickLogger(logger *slog.Logger, readingEvery time.Duration) *tickLogger {
	return &tickLogger{logger: logger, readingEvery: readingEvery}
}

// button records the outcome of one button read.
func (l *tickLogger) button(err error) {
	if err != nil {
		if msg := err.Error(); msg != l.buttonErr {
			l.logger.Warn("button read error", "err", err)
			l.buttonErr = msg
		}
		return
	}
	if l.buttonErr != "" {
		l.logger.Info("button read recovered")
		l.buttonErr = ""
	}
}

// tick reports mode changes, clamp corrections, tick errors and, at debug
// level, the Stats reading at most once per readingEvery.
func (l *tickLogger) tick(now time.Time, res device.Result, err error) {
	if res.Transition != logic.TransitionNone {
		l.logger.Info("mode change", "mode", string(res.Mode), "transition", string(res.Transition))
	}
	if res.Step.Clamped {
		l.logger.Warn("walker clamp corrected position", "x", res.Step.Pos.X, "y", res.Step.Pos.Y)
	}
	if err != nil {
		if msg := err.Error(); msg != l.tickErr {
			l.logger.Warn("tick error", "mode", string(res.Mode), "err", err)
			l.tickErr = msg
		}
		return
	}
	if l.tickErr != "" {
		l.logger.Info("tick recovered", "mode", string(res.Mode))
		l.tickErr = ""
	}

	if res.Mode != logic.ModeStats {
		return
	}
	if !l.lastReading.IsZero() && now.Sub(l.lastReading) < l.readingEvery {
		return
	}
	l.lastReading = now
	l.logger.Debug("reading",
		"temperature_c", res.Sample.TemperatureC,
		"humidity_pct", res.Sample.HumidityPct,
		"pressure_hpa", res.Sample.PressureHPa,
		"spread", res.Spread,
		"comfort", string(res.Comfort),
	)
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
