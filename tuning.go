package pid

import "fmt"

// Preset is a named set of starting gains.
type Preset struct {
	Name  string
	Gains Gains
}

// Starting gains for common loops. They are a place to begin tuning, not
// final values.
var (
	// PresetThermal suits slow loops such as a heater or fan curve.
	PresetThermal = Preset{Name: "thermal", Gains: Gains{Kp: 5.0, Ki: 0.1, Kd: 20.0}}
	// PresetHeading suits an angular loop in degrees driving a turn rate.
	PresetHeading = Preset{Name: "heading", Gains: Gains{Kp: 2.0, Ki: 0.0, Kd: 0.1}}
	// PresetVelocity suits a motor speed loop with a [-1, 1] power output.
	PresetVelocity = Preset{Name: "velocity", Gains: Gains{Kp: 0.08, Ki: 0.075, Kd: 0.0001}}
)

var presets = map[string]Preset{
	PresetThermal.Name:  PresetThermal,
	PresetHeading.Name:  PresetHeading,
	PresetVelocity.Name: PresetVelocity,
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Tuning provides helper functions for tuning a controller
type Tuning struct {
	controller *Controller
}

// NewTuning creates a tuning helper for the given controller
func NewTuning(controller *Controller) *Tuning {
	return &Tuning{controller: controller}
}

// Apply sets the controller's gains to the preset's.
func (t *Tuning) Apply(p Preset) {
	t.controller.SetGains(p.Gains.Kp, p.Gains.Ki, p.Gains.Kd)
}

// Check returns advisory warnings about the controller's configuration.
// Step never consults it; a configuration with warnings still runs.
func (t *Tuning) Check() []string {
	var warnings []string
	c := t.controller

	if c.kp < 0 || c.ki < 0 || c.kd < 0 {
		warnings = append(warnings, fmt.Sprintf(
			"negative gain (kp=%g ki=%g kd=%g) drives the output away from the setpoint", c.kp, c.ki, c.kd))
	}
	if c.kp == 0 && c.ki == 0 && c.kd == 0 {
		warnings = append(warnings, "all gains are zero; output is always 0")
	}
	if c.kp == 0 && c.ki > 0 {
		warnings = append(warnings, "integral-only control is prone to overshoot")
	}
	if c.outputMin > c.outputMax {
		warnings = append(warnings, fmt.Sprintf(
			"output_min (%g) is greater than output_max (%g)", c.outputMin, c.outputMax))
	}
	if c.continuous && c.inputMax <= c.inputMin {
		warnings = append(warnings, fmt.Sprintf(
			"continuous input range [%g, %g] is empty", c.inputMin, c.inputMax))
	}

	return warnings
}
