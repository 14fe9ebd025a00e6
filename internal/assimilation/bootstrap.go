package assimilation

import (
	"context"

	"aquafold/domain/core"
)

// InitialState determines the population and weight a day starts from.
//
// The scenario's start date, or a series with no persisted rows yet, seeds
// from the assignment's live values. Any later date must read the previous
// calendar day's persisted row; if rows exist but the previous day's is
// missing, the chain has a hole and the day fails with a data-gap error
// rather than silently resetting to assignment values.
func (e *Engine) InitialState(ctx context.Context, date core.Date) (population int, weightG float64, err error) {
	if date == e.scenario.StartDate {
		return e.assignment.Population, e.assignment.AvgWeightG, nil
	}

	prior, err := e.states.GetDayState(ctx, e.assignment.ID, date.Prev())
	if err == nil {
		return prior.Population, prior.AvgWeightG, nil
	}
	if !core.IsNotFoundError(err) {
		return 0, 0, core.NewDataSourceError("daily state store", err)
	}

	// No previous-day row. Distinguish a fresh series (seed from the
	// assignment) from a broken chain (fail, never invent a link).
	earlier, err := e.states.ListRange(ctx, e.assignment.ID, e.scenario.StartDate, date.Prev())
	if err != nil {
		return 0, 0, core.NewDataSourceError("daily state store", err)
	}
	if len(earlier) > 0 {
		return 0, 0, core.NewDataGapError(e.assignment.ID, date.Prev())
	}
	return e.assignment.Population, e.assignment.AvgWeightG, nil
}
