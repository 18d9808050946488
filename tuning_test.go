package pid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTuning_Check_Valid tests that a sensible configuration has no warnings
func TestTuning_Check_Valid(t *testing.T) {
	// Arrange
	pid := New(5.0, 0.1, 20.0, WithOutputRange(0, 100))
	tuning := NewTuning(pid)

	// Act
	warnings := tuning.Check()

	// Assert
	assert.Empty(t, warnings)
}

// TestTuning_Check_Warnings tests each advisory
func TestTuning_Check_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		pid      *Controller
		contains string
	}{
		{name: "negative gain", pid: New(-1.0, 0.1, 0.0), contains: "negative gain"},
		{name: "all zero", pid: New(0, 0, 0), contains: "all gains are zero"},
		{name: "integral only", pid: New(0, 0.5, 0), contains: "integral-only"},
		{name: "inverted output", pid: New(1, 0, 0, WithOutputRange(10, -10)), contains: "output_min (10)"},
		{name: "empty input range", pid: New(1, 0, 0, WithContinuousInput(180, -180)), contains: "range [180, -180] is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			warnings := NewTuning(tt.pid).Check()

			// Assert
			require.NotEmpty(t, warnings)
			assert.Contains(t, warnings[0], tt.contains)
		})
	}
}

// TestTuning_Apply tests applying each preset
func TestTuning_Apply(t *testing.T) {
	for _, name := range []string{"thermal", "heading", "velocity"} {
		t.Run(name, func(t *testing.T) {
			// Arrange
			pid := New(1.0, 1.0, 1.0)
			preset, ok := LookupPreset(name)
			require.True(t, ok)

			// Act
			NewTuning(pid).Apply(preset)

			// Assert
			assert.Equal(t, preset.Gains, pid.Gains())
			assert.Empty(t, NewTuning(pid).Check())
		})
	}
}

// TestLookupPreset_Unknown tests an unknown preset name
func TestLookupPreset_Unknown(t *testing.T) {
	_, ok := LookupPreset("turbo")
	assert.False(t, ok)
}
