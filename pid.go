// Package pid implements a single-axis PID feedback controller.
//
// A Controller is driven by one owning control loop: the loop sets the
// measured value read from its sensor, calls Step once per cycle and applies
// the returned output to its actuator. The Controller performs no I/O of its
// own and is not safe for concurrent use.
package pid

import (
	"math"
)

// filterAlpha is the smoothing factor of the low-pass filter applied to the
// error before it is differentiated.
const filterAlpha = 0.05

// Controller is a PID controller with a filtered derivative, optional
// continuous (wrapping) input and output clamping.
type Controller struct {
	// PID gains
	kp float64 // Proportional gain
	ki float64 // Integral gain
	kd float64 // Derivative gain

	setpoint float64
	measured float64

	// Internal state
	integral     float64 // Running sum of raw error
	prevFiltered float64 // Filtered error from the previous step

	// Output limits
	outputMin float64
	outputMax float64

	// Continuous input range
	continuous bool
	inputMin   float64
	inputMax   float64

	label string
	sink  Sink
}

// Gains holds the three controller gains.
type Gains struct {
	Kp float64
	Ki float64
	Kd float64
}

// State is a snapshot of a controller's configuration and transient state.
type State struct {
	Gains
	Setpoint     float64
	Measured     float64
	Integral     float64
	PrevFiltered float64
	OutputMin    float64
	OutputMax    float64
	Continuous   bool
	InputMin     float64
	InputMax     float64
	Label        string
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithOutputRange sets the output clamp bounds.
func WithOutputRange(min, max float64) Option {
	return func(c *Controller) { c.SetOutputRange(min, max) }
}

// WithContinuousInput enables wraparound of the error over [min, max].
func WithContinuousInput(min, max float64) Option {
	return func(c *Controller) { c.EnableContinuousInput(min, max) }
}

// WithLabel attaches a label used in diagnostics.
func WithLabel(text string) Option {
	return func(c *Controller) { c.AttachLabel(text) }
}

// WithSink sets the sink that receives a Record for every step.
func WithSink(s Sink) Option {
	return func(c *Controller) { c.SetSink(s) }
}

// New creates a controller with the given gains. The output is unclamped
// and continuous input is disabled unless options say otherwise.
func New(kp, ki, kd float64, opts ...Option) *Controller {
	c := &Controller{
		kp:        kp,
		ki:        ki,
		kd:        kd,
		outputMin: -math.MaxFloat64,
		outputMax: math.MaxFloat64,
		sink:      Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Step runs one control cycle and returns the clamped output. dt is the time
// since the previous step; pass NoSample on the first step or after a pause
// to suppress the derivative term.
//
// dt must be positive when present and, with continuous input enabled, the
// input range must be non-empty. Neither is checked.
func (c *Controller) Step(dt Elapsed) float64 {
	// Calculate error; normalize if input is continuous
	err := c.setpoint - c.measured
	if c.continuous {
		err = Normalize(err, c.inputMin, c.inputMax)
	}

	filtered := filterAlpha*err + (1-filterAlpha)*c.prevFiltered
	if c.continuous {
		filtered = Normalize(filtered, c.inputMin, c.inputMax)
	}

	c.integral += err

	var derivative float64
	if seconds, ok := dt.Seconds(); ok {
		derivative = (filtered - c.prevFiltered) / seconds
	}
	c.prevFiltered = filtered

	output := c.kp*err + c.ki*c.integral + c.kd*derivative
	output = clamp(output, c.outputMin, c.outputMax)

	c.sink.Record(Record{
		Label:      c.label,
		Setpoint:   c.setpoint,
		Measured:   c.measured,
		Error:      err,
		Integral:   c.integral,
		Derivative: derivative,
		Output:     output,
	})

	return output
}

// SetGains updates the PID gains. Accumulated state is kept.
func (c *Controller) SetGains(kp, ki, kd float64) {
	c.kp = kp
	c.ki = ki
	c.kd = kd
}

// Gains returns the current gains.
func (c *Controller) Gains() Gains {
	return Gains{Kp: c.kp, Ki: c.ki, Kd: c.kd}
}

// SetOutputRange updates the output clamp bounds.
func (c *Controller) SetOutputRange(min, max float64) {
	c.outputMin = min
	c.outputMax = max
}

// SetSetpoint updates the target value.
func (c *Controller) SetSetpoint(v float64) {
	c.setpoint = v
}

// SetMeasured updates the measured process variable.
func (c *Controller) SetMeasured(v float64) {
	c.measured = v
}

// EnableContinuousInput treats the input as wrapping over [min, max], so the
// error is the shortest signed distance around the wrap point. max must be
// greater than min.
func (c *Controller) EnableContinuousInput(min, max float64) {
	c.continuous = true
	c.inputMin = min
	c.inputMax = max
}

// DisableContinuousInput restores linear error computation.
func (c *Controller) DisableContinuousInput() {
	c.continuous = false
}

// Reset clears the setpoint, measured value, integral and filter state.
// Gains, output range, continuous input, label and sink are preserved.
func (c *Controller) Reset() {
	c.setpoint = 0
	c.measured = 0
	c.integral = 0
	c.prevFiltered = 0
}

// AttachLabel sets the label reported with every diagnostic record.
func (c *Controller) AttachLabel(text string) {
	c.label = text
}

// SetSink replaces the diagnostic sink. A nil sink discards records.
func (c *Controller) SetSink(s Sink) {
	if s == nil {
		s = Discard
	}
	c.sink = s
}

// State returns a snapshot of the controller for debugging.
func (c *Controller) State() State {
	return State{
		Gains:        c.Gains(),
		Setpoint:     c.setpoint,
		Measured:     c.measured,
		Integral:     c.integral,
		PrevFiltered: c.prevFiltered,
		OutputMin:    c.outputMin,
		OutputMax:    c.outputMax,
		Continuous:   c.continuous,
		InputMin:     c.inputMin,
		InputMax:     c.inputMax,
		Label:        c.label,
	}
}

// clamp limits a value between min and max. NaN clamps to min, and max wins
// when the bounds are inverted.
func clamp(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		value = min
	}
	if value > max {
		return max
	}
	return value
}
