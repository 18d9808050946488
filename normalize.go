package pid

import "math"

// Normalize folds x into [-(max-min)/2, (max-min)/2], the shortest signed
// distance on a circle with period max-min. Values already in range are
// returned unchanged. max must be greater than min; infinite x yields NaN.
func Normalize(x, min, max float64) float64 {
	bound := (max - min) / 2
	lower, upper := -bound, bound
	modulus := upper - lower

	// math.Mod is exact, so large magnitudes lose nothing before the fold.
	x = math.Mod(x, modulus)

	x -= math.Trunc((x-lower)/modulus) * modulus
	x -= math.Trunc((x-upper)/modulus) * modulus

	// Rounding in the quotients can overshoot by an ulp at the edges.
	if x < lower {
		return lower
	}
	if x > upper {
		return upper
	}
	return x
}
