package pid

import (
	"context"
	"log/slog"
)

// Record is the diagnostic emitted by every step.
type Record struct {
	Label      string
	Setpoint   float64
	Measured   float64
	Error      float64 // Raw error, normalized when input is continuous
	Integral   float64 // Integral accumulator after this step
	Derivative float64 // Derivative of the filtered error
	Output     float64 // Clamped output
}

// Sink receives step diagnostics. Implementations must not call back into
// the Controller that reports to them.
type Sink interface {
	Record(Record)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Record)

// Record calls f(r).
func (f SinkFunc) Record(r Record) { f(r) }

// Discard is a Sink that drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Record(Record) {}

// MultiSink fans a record out to each of its sinks in order.
type MultiSink []Sink

// Record implements Sink.
func (m MultiSink) Record(r Record) {
	for _, s := range m {
		s.Record(r)
	}
}

// LogSink writes one debug-level log line per step.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a LogSink that writes to logger, or to slog.Default()
// when logger is nil.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Record implements Sink.
func (s *LogSink) Record(r Record) {
	ctx := context.Background()
	if !s.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, labelPrefix(r.Label)+"pid step",
		slog.String("label", r.Label),
		slog.Float64("setpoint", r.Setpoint),
		slog.Float64("measured", r.Measured),
		slog.Float64("error", r.Error),
		slog.Float64("integral", r.Integral),
		slog.Float64("derivative", r.Derivative),
		slog.Float64("output", r.Output),
	)
}

// labelPrefix renders a label as "(label) ", or nothing when empty.
func labelPrefix(label string) string {
	if label == "" {
		return ""
	}
	return "(" + label + ") "
}
