package assimilation

import (
	"context"

	"github.com/montanaflynn/stats"

	"aquafold/domain/assimilation"
	"aquafold/domain/core"
)

// advanceWeight produces the day's average weight.
//
// On days with operator weight samples, each raw sample is bias-corrected
// and the corrected mean overrides the projected trajectory
// (source=sampled). Otherwise the TGC growth model advances the prior
// weight by one day using the resolved temperature (source=calculated,
// confidence inherited from the temperature resolution). The result is
// clamped to the scenario's biological constraints and never negative.
func (e *Engine) advanceWeight(ctx context.Context, date core.Date, weightG float64, temp assimilation.Resolution) (assimilation.Resolution, error) {
	samples, err := e.measurements.WeightSamples(ctx, e.assignment.ID, date)
	if err != nil {
		return assimilation.Resolution{}, core.NewDataSourceError("weight samples", err)
	}

	if len(samples) > 0 {
		corrected := make([]float64, 0, len(samples))
		for _, s := range samples {
			if err := s.Validate(); err != nil {
				return assimilation.Resolution{}, err
			}
			adjusted, err := e.AdjustForSelectionBias(s.AvgWeightG, s.Method)
			if err != nil {
				return assimilation.Resolution{}, err
			}
			corrected = append(corrected, adjusted)
		}
		mean, err := stats.Mean(corrected)
		if err != nil {
			return assimilation.Resolution{}, core.NewComputationError("weight samples", err.Error())
		}
		return assimilation.Resolution{
			Value:      e.scenario.Constraints.ClampWeight(mean),
			Source:     assimilation.SourceSampled,
			Confidence: e.policy.SampledWeightConfidence,
		}, nil
	}

	gain, err := e.scenario.Growth.DailyGain(weightG, temp.Value)
	if err != nil {
		return assimilation.Resolution{}, err
	}

	next := weightG + gain
	if next < 0 {
		next = 0
	}
	return assimilation.Resolution{
		Value:      e.scenario.Constraints.ClampWeight(next),
		Source:     assimilation.SourceCalculated,
		Confidence: temp.Confidence,
	}, nil
}
