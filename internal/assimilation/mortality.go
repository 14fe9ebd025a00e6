package assimilation

import (
	"context"
	"math"

	"aquafold/domain/assimilation"
	"aquafold/domain/batch"
	"aquafold/domain/core"
)

// MortalityEstimate is the day's resolved death count with its provenance.
type MortalityEstimate struct {
	Count      int
	Source     assimilation.SourceTag
	Confidence float64
}

// Mortality resolves the day's death count for an assignment.
//
// Fallback order: recorded mortality events win with confidence 1.0;
// otherwise the mortality model's stage rate is applied to the population
// and rounded to whole fish, at the fixed Policy.ModelMortalityConfidence.
// The returned count always satisfies 0 <= count <= population.
func (e *Engine) Mortality(ctx context.Context, date core.Date, population int, stage batch.LifecycleStage) (MortalityEstimate, error) {
	if population < 0 {
		return MortalityEstimate{}, core.ErrNegativePopulation
	}

	events, err := e.measurements.MortalityEvents(ctx, e.assignment.ID, date)
	if err != nil {
		return MortalityEstimate{}, core.NewDataSourceError("mortality events", err)
	}

	if len(events) > 0 {
		total := 0
		for _, ev := range events {
			if ev.Count < 0 {
				return MortalityEstimate{}, core.NewComputationError("mortality event", "negative count recorded")
			}
			total += ev.Count
		}
		if total > population {
			return MortalityEstimate{}, core.ErrMortalityRange
		}
		return MortalityEstimate{
			Count:      total,
			Source:     assimilation.SourceActual,
			Confidence: 1.0,
		}, nil
	}

	rate := e.scenario.Mortality.DailyRate(stage)
	if rate < 0 || rate > 1 {
		return MortalityEstimate{}, core.NewComputationError("mortality rate", "must be in [0,1]")
	}

	count := int(math.Round(rate * float64(population)))
	if count > population {
		count = population
	}
	return MortalityEstimate{
		Count:      count,
		Source:     assimilation.SourceModel,
		Confidence: e.policy.ModelMortalityConfidence,
	}, nil
}
