package assimilation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquafold/domain/core"
	"aquafold/domain/measurement"
)

func TestAdjustForSelectionBiasDirections(t *testing.T) {
	fraction := DefaultPolicy().BiasCorrectionFraction

	largest, err := AdjustForSelectionBias(100.0, measurement.SamplingLargest, fraction)
	require.NoError(t, err)
	assert.Less(t, largest, 100.0)

	smallest, err := AdjustForSelectionBias(100.0, measurement.SamplingSmallest, fraction)
	require.NoError(t, err)
	assert.Greater(t, smallest, 100.0)

	average, err := AdjustForSelectionBias(100.0, measurement.SamplingAverage, fraction)
	require.NoError(t, err)
	assert.Equal(t, 100.0, average)
}

func TestAdjustForSelectionBiasMagnitude(t *testing.T) {
	largest, err := AdjustForSelectionBias(100.0, measurement.SamplingLargest, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 95.0, largest, 1e-9)

	smallest, err := AdjustForSelectionBias(100.0, measurement.SamplingSmallest, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/0.95, smallest, 1e-9)
}

func TestAdjustForSelectionBiasRejectsBadInputs(t *testing.T) {
	cases := []struct {
		name     string
		weight   float64
		method   measurement.SamplingMethod
		fraction float64
	}{
		{"zero weight", 0, measurement.SamplingAverage, 0.05},
		{"negative weight", -4.2, measurement.SamplingAverage, 0.05},
		{"zero fraction", 100, measurement.SamplingLargest, 0},
		{"full fraction", 100, measurement.SamplingSmallest, 1.0},
		{"unknown method", 100, measurement.SamplingMethod("MEDIAN"), 0.05},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := AdjustForSelectionBias(tc.weight, tc.method, tc.fraction)
			require.Error(t, err)
			assert.True(t, core.IsComputationError(err))
		})
	}
}
