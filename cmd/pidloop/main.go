// Command pidloop runs a PID controller against a simulated plant, logging
// each step and exporting the controller's terms as Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/ixian/pid"
)

var (
	// CLI flags
	configPath = flag.String("config", "config.yaml", "Path to configuration file")
	dryRun     = flag.Bool("dry-run", false, "Run without starting the metrics server")
	logLevel   = flag.String("log-level", "", "Override log level (debug, info, warn, error)")
	steps      = flag.Int("steps", -1, "Override loop.steps (0 runs until interrupted)")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Apply flag overrides
	if *logLevel != "" {
		config.Server.LogLevel = *logLevel
	}
	if *steps >= 0 {
		config.Loop.Steps = *steps
	}

	logger, err := newLogger(os.Stderr, config.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting pid loop", "config", *configPath, "plant", config.Plant.Kind)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := NewMetrics(reg)
	if !*dryRun {
		StartMetricsServer(ctx, config.Server.MetricsPort, metrics.Handler(reg), logger)
	}

	plant, err := NewPlant(config.Plant)
	if err != nil {
		logger.Error("failed to build plant", "error", err)
		os.Exit(1)
	}

	controller := config.Controller.NewController(pid.MultiSink{pid.NewLogSink(logger), metrics})
	for _, warning := range pid.NewTuning(controller).Check() {
		logger.Warn("controller tuning", "warning", warning)
	}

	loop := newControlLoop(controller, plant, metrics, config.Loop.Setpoint)
	n := loop.run(ctx, config.Loop.Interval, config.Loop.Steps)

	logger.Info("pid loop stopped", "steps", n, "measured", plant.Measure())
}

// controlLoop owns a controller and the plant it drives
type controlLoop struct {
	controller *pid.Controller
	plant      Plant
	metrics    *Metrics
	last       time.Time
}

func newControlLoop(controller *pid.Controller, plant Plant, metrics *Metrics, setpoint float64) *controlLoop {
	controller.SetSetpoint(setpoint)
	return &controlLoop{
		controller: controller,
		plant:      plant,
		metrics:    metrics,
	}
}

// run ticks every interval until ctx is done or, when limit is positive,
// limit ticks have run. It returns the number of ticks.
func (l *controlLoop) run(ctx context.Context, interval time.Duration, limit int) int {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	n := 0
	l.tick(time.Now())
	n++
	for limit <= 0 || n < limit {
		select {
		case <-ctx.Done():
			return n
		case now := <-ticker.C:
			l.tick(now)
			n++
		}
	}
	return n
}

// tick runs one control cycle at now and returns the controller output
func (l *controlLoop) tick(now time.Time) float64 {
	start := time.Now()

	// The first cycle has no previous sample to differentiate against
	dt := pid.NoSample
	if !l.last.IsZero() {
		elapsed := now.Sub(l.last)
		l.plant.Advance(elapsed)
		dt = pid.Since(elapsed)
	}
	l.last = now

	l.controller.SetMeasured(l.plant.Measure())
	output := l.controller.Step(dt)
	l.plant.Drive(output)

	if l.metrics != nil {
		l.metrics.ObserveLoop(time.Since(start))
	}
	return output
}

// parseLogLevel maps a config log level onto slog
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log_level must be one of: debug, info, warn, error, got %s", level)
	}
}

// newLogger builds a text logger writing to w at the given level
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
