package assimilation

import (
	"aquafold/domain/core"
	"aquafold/domain/measurement"
)

// AdjustForSelectionBias corrects a raw sampled average weight for
// non-random fish selection. The directional contract is fixed:
//
//	LARGEST  -> adjusted < sampled (operators netted the big fish)
//	SMALLEST -> adjusted > sampled
//	AVERAGE  -> adjusted == sampled
//
// fraction is the policy magnitude and must sit strictly inside (0, 1);
// anything else would break the strict inequalities or divide by zero.
func AdjustForSelectionBias(sampledWeightG float64, method measurement.SamplingMethod, fraction float64) (float64, error) {
	if sampledWeightG <= 0 {
		return 0, core.NewComputationError("sampled weight", "must be positive")
	}
	if fraction <= 0 || fraction >= 1 {
		return 0, core.NewComputationError("bias fraction", "must be in (0,1)")
	}

	switch method {
	case measurement.SamplingLargest:
		return sampledWeightG * (1.0 - fraction), nil
	case measurement.SamplingSmallest:
		return sampledWeightG / (1.0 - fraction), nil
	case measurement.SamplingAverage:
		return sampledWeightG, nil
	}
	return 0, core.NewComputationError("sampling method", "unknown method "+string(method))
}

// AdjustForSelectionBias applies the engine's configured correction fraction.
func (e *Engine) AdjustForSelectionBias(sampledWeightG float64, method measurement.SamplingMethod) (float64, error) {
	return AdjustForSelectionBias(sampledWeightG, method, e.policy.BiasCorrectionFraction)
}
