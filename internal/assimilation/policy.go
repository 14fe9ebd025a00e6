package assimilation

// Policy carries the tunable constants of the assimilation fallback rules.
// The qualitative contracts (measured beats profile, actual beats model,
// LARGEST corrects down, SMALLEST corrects up) are fixed; only magnitudes
// live here.
type Policy struct {
	// ModelMortalityConfidence is the fixed confidence assigned to
	// model-estimated daily loss. Observed loss always scores 1.0.
	ModelMortalityConfidence float64

	// ProfileConfidenceCap bounds the confidence of profile-derived
	// temperature. The actual score degrades below the cap as the local
	// profile spread grows.
	ProfileConfidenceCap float64

	// ProfileSpreadWindowDays is the half-width of the window used to
	// measure local profile spread.
	ProfileSpreadWindowDays int

	// SampledWeightConfidence scores a bias-corrected weight sample:
	// observation-derived, but adjusted, so below 1.0.
	SampledWeightConfidence float64

	// BiasCorrectionFraction is the fractional adjustment applied to
	// non-random weight samples. Must sit strictly inside (0, 1).
	BiasCorrectionFraction float64
}

// DefaultPolicy returns the production fallback constants
func DefaultPolicy() Policy {
	return Policy{
		ModelMortalityConfidence: 0.4,
		ProfileConfidenceCap:     0.5,
		ProfileSpreadWindowDays:  7,
		SampledWeightConfidence:  0.9,
		BiasCorrectionFraction:   0.05,
	}
}
