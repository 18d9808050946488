package pid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalize_Accuracy tests known folds into [-180, 180]
func TestNormalize_Accuracy(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{275.3, -84.7},
		{60.0, 60.0},
		{-275.3, 84.7},
		{359.0, -1.0},
		{-90.0, -90.0},
		{725.0, 5.0},
		{0.0, 0.0},
	}

	for _, tt := range tests {
		// Act
		got := Normalize(tt.input, -180, 180)

		// Assert
		assert.InDelta(t, tt.expected, got, 0.001, "Normalize(%v)", tt.input)
	}
}

// TestNormalize_Boundaries tests that both edges of the period fold to the upper bound
func TestNormalize_Boundaries(t *testing.T) {
	assert.Equal(t, 180.0, Normalize(180, -180, 180))
	assert.Equal(t, 180.0, Normalize(-180, -180, 180))
	assert.Equal(t, 180.0, Normalize(540, -180, 180))
	assert.Equal(t, 180.0, Normalize(-540, -180, 180))
}

// TestNormalize_AsymmetricRange tests that only the width of the range matters
func TestNormalize_AsymmetricRange(t *testing.T) {
	// A [0, 360) heading has the same period as [-180, 180]
	assert.InDelta(t, -84.7, Normalize(275.3, 0, 360), 0.001)
	// Radians
	assert.InDelta(t, -math.Pi/2, Normalize(3*math.Pi/2, 0, 2*math.Pi), 1e-9)
}

// TestNormalize_Bounds checks the result always lies in the closed interval
func TestNormalize_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100000; i++ {
		// Arrange
		a := rng.Float64()*2000000 - 1000000

		// Act
		na := Normalize(a, -180, 180)

		// Assert
		require.True(t, na >= -180 && na <= 180, "Error not within bounds: %v => %v", a, na)
	}
}

// TestNormalize_LargeMagnitudes tests inputs far outside the period
func TestNormalize_LargeMagnitudes(t *testing.T) {
	inputs := []float64{1e15, -1e15, 1e300, -1e300, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64}

	for _, a := range inputs {
		na := Normalize(a, -180, 180)
		assert.True(t, na >= -180 && na <= 180, "Error not within bounds: %v => %v", a, na)
	}
}

// TestNormalize_NonFinite tests that non-finite inputs propagate as NaN
func TestNormalize_NonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(Normalize(math.Inf(1), -180, 180)))
	assert.True(t, math.IsNaN(Normalize(math.Inf(-1), -180, 180)))
	assert.True(t, math.IsNaN(Normalize(math.NaN(), -180, 180)))
}
