package assimilation

import (
	"context"

	"github.com/montanaflynn/stats"

	"aquafold/domain/assimilation"
	"aquafold/domain/core"
)

// Temperature resolves the day's water temperature for the assignment's
// container.
//
// Fallback order: a direct measurement wins with confidence 1.0; otherwise
// the growth model's temperature profile supplies a value at confidence at
// most Policy.ProfileConfidenceCap. There is no further fallback - an empty
// profile is a fatal per-day error.
func (e *Engine) Temperature(ctx context.Context, date core.Date) (assimilation.Resolution, error) {
	readings, err := e.measurements.TemperatureReadings(ctx, e.assignment.ContainerID, date)
	if err != nil {
		return assimilation.Resolution{}, core.NewDataSourceError("temperature readings", err)
	}

	if len(readings) > 0 {
		values := make([]float64, len(readings))
		for i, r := range readings {
			values[i] = r.Value
		}
		mean, err := stats.Mean(values)
		if err != nil {
			return assimilation.Resolution{}, core.NewComputationError("temperature", err.Error())
		}
		return assimilation.Resolution{
			Value:      mean,
			Source:     assimilation.SourceMeasured,
			Confidence: 1.0,
		}, nil
	}

	offset := date.DaysSince(e.scenario.StartDate)
	value, err := e.scenario.Growth.Profile.TemperatureAt(offset)
	if err != nil {
		return assimilation.Resolution{}, err
	}

	return assimilation.Resolution{
		Value:      value,
		Source:     assimilation.SourceProfile,
		Confidence: e.profileConfidence(offset),
	}, nil
}

// profileConfidence scores a profile-derived temperature. The score starts
// at the policy cap and degrades as the local spread of the profile grows:
// interpolating across a volatile stretch of the curve is less trustworthy
// than across a flat one.
func (e *Engine) profileConfidence(dayOffset int) float64 {
	ceiling := e.policy.ProfileConfidenceCap
	spread := e.scenario.Growth.Profile.SpreadAround(dayOffset, e.policy.ProfileSpreadWindowDays)
	return ceiling / (1.0 + spread/4.0)
}
