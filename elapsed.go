package pid

import "time"

// Elapsed is the time between two steps, or the absence of a previous
// sample. The zero value is NoSample.
type Elapsed struct {
	seconds float64
	valid   bool
}

// NoSample marks a step with no previous sample, such as the first step or
// the first step after a pause. The derivative term is zero for such a step.
var NoSample = Elapsed{}

// Seconds returns an Elapsed of s seconds.
func Seconds(s float64) Elapsed {
	return Elapsed{seconds: s, valid: true}
}

// Since returns an Elapsed of duration d.
func Since(d time.Duration) Elapsed {
	return Seconds(d.Seconds())
}

// Seconds reports the elapsed time in seconds and whether it is present.
func (e Elapsed) Seconds() (float64, bool) {
	return e.seconds, e.valid
}

// String implements fmt.Stringer.
func (e Elapsed) String() string {
	if !e.valid {
		return "none"
	}
	return time.Duration(e.seconds * float64(time.Second)).String()
}
