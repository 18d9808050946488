package main

import (
	"fmt"
	"time"

	"github.com/ixian/pid"
)

// Plant is the simulated process under control. The loop advances it by the
// elapsed time, reads it, then drives it with the new output, which is held
// until the next advance.
type Plant interface {
	Measure() float64
	Drive(output float64)
	Advance(dt time.Duration)
}

// NewPlant builds the plant described by the config
func NewPlant(config PlantConfig) (Plant, error) {
	switch config.Kind {
	case PlantLag:
		return &lagPlant{
			value:   config.Initial,
			ambient: config.Ambient,
			gain:    config.Gain,
			tau:     config.TimeConstant.Seconds(),
		}, nil
	case PlantHeading:
		return &headingPlant{
			heading: pid.Normalize(config.Initial, -180, 180),
			gain:    config.Gain,
		}, nil
	default:
		return nil, fmt.Errorf("unknown plant kind %q", config.Kind)
	}
}

// lagPlant is a first-order lag towards ambient + gain*output, like a heater
// warming a block.
type lagPlant struct {
	value   float64
	ambient float64
	gain    float64
	tau     float64 // Time constant in seconds
	output  float64
}

func (p *lagPlant) Measure() float64 { return p.value }

func (p *lagPlant) Drive(output float64) { p.output = output }

func (p *lagPlant) Advance(dt time.Duration) {
	target := p.ambient + p.gain*p.output
	p.value += (target - p.value) * dt.Seconds() / p.tau
}

// headingPlant turns at gain*output degrees per second and wraps into
// [-180, 180].
type headingPlant struct {
	heading float64
	gain    float64
	output  float64
}

func (p *headingPlant) Measure() float64 { return p.heading }

func (p *headingPlant) Drive(output float64) { p.output = output }

func (p *headingPlant) Advance(dt time.Duration) {
	p.heading = pid.Normalize(p.heading+p.gain*p.output*dt.Seconds(), -180, 180)
}
