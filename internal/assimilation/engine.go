package assimilation

import (
	"context"
	"fmt"
	"time"

	"aquafold/domain/assimilation"
	"aquafold/domain/batch"
	"aquafold/domain/core"
	"aquafold/domain/scenario"
	"aquafold/internal"
	"aquafold/ports"
)

// Engine reconstructs one assignment's daily state series by fusing
// measured facts with model estimates. Days within an assignment are
// strictly sequential; each day's persisted row seeds the next day's
// bootstrap. Engines for different assignments are independent and may run
// concurrently.
type Engine struct {
	assignment   *batch.Assignment
	scenario     *scenario.Scenario
	measurements ports.MeasurementReader
	states       ports.DailyStateRepository
	policy       Policy
	log          *internal.Logger
}

// New constructs an engine for one assignment, resolving the pinned model
// bundle up front. A missing or unresolvable scenario makes every daily
// operation meaningless, so this fails fast with core.ErrNoScenario rather
// than degrading per day.
func New(
	ctx context.Context,
	assignment *batch.Assignment,
	scenarios ports.ScenarioRepository,
	measurements ports.MeasurementReader,
	states ports.DailyStateRepository,
	policy Policy,
	logger *internal.Logger,
) (*Engine, error) {
	if assignment == nil {
		return nil, fmt.Errorf("%w: assignment is required", core.ErrConfiguration)
	}
	if err := assignment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	if !assignment.HasPinnedRun() {
		return nil, fmt.Errorf("%w: assignment %s has no pinned projection run", core.ErrNoScenario, assignment.ID)
	}

	bundle, err := scenarios.GetPinnedScenario(ctx, *assignment.ProjectionRunID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: projection run %s resolves no scenario", core.ErrNoScenario, *assignment.ProjectionRunID)
		}
		return nil, fmt.Errorf("%w: scenario lookup failed: %v", core.ErrConfiguration, err)
	}

	if logger == nil {
		logger = internal.DefaultLogger
	}

	return &Engine{
		assignment:   assignment,
		scenario:     bundle,
		measurements: measurements,
		states:       states,
		policy:       policy,
		log:          logger,
	}, nil
}

// Scenario exposes the resolved model bundle for diagnostics
func (e *Engine) Scenario() *scenario.Scenario {
	return e.scenario
}

// RecomputeRange reconstructs [start, end] in ascending date order.
// Each day's row is upserted in place, so re-running a range with unchanged
// source data yields rows_created=0 and rows_updated=len(range).
//
// Per-day failures never propagate: they are appended to the result's error
// list and the chain halts for the remainder of the range, because the next
// day's bootstrap would read from a missing or poisoned prior state.
// Cancellation between days stops dispatching and returns partial counts.
func (e *Engine) RecomputeRange(ctx context.Context, start, end core.Date) (*assimilation.RecomputeResult, error) {
	if start.After(end) {
		return nil, core.NewComputationError("date range", fmt.Sprintf("start %s after end %s", start, end))
	}
	if start.Before(e.scenario.StartDate) {
		return nil, core.NewComputationError("date range", fmt.Sprintf("start %s precedes scenario start %s", start, e.scenario.StartDate))
	}

	result := &assimilation.RecomputeResult{Errors: []assimilation.DayError{}}

	var prev *assimilation.DayState
	for date := start; !date.After(end); date = date.Next() {
		if ctx.Err() != nil {
			e.log.Warn("recompute cancelled for assignment %s at %s", e.assignment.ID, date)
			return result, nil
		}

		state, err := e.computeDay(ctx, date, prev)
		if err != nil {
			e.log.Error("assignment %s day %s failed: %v", e.assignment.ID, date, err)
			result.Errors = append(result.Errors, assimilation.DayError{Date: date, Reason: err.Error()})
			break
		}

		created, err := e.states.Upsert(ctx, state)
		if err != nil {
			e.log.Error("assignment %s day %s upsert failed: %v", e.assignment.ID, date, err)
			result.Errors = append(result.Errors, assimilation.DayError{Date: date, Reason: err.Error()})
			break
		}
		if created {
			result.RowsCreated++
		} else {
			result.RowsUpdated++
		}

		e.log.Debug("assignment %s day %d (%s): pop=%d weight=%.2fg biomass=%.3fkg",
			e.assignment.ID, state.DayNumber, date, state.Population, state.AvgWeightG, state.BiomassKG)
		prev = state
	}

	return result, nil
}

// computeDay produces one day's state. prev carries the state persisted by
// the previous fold step within this run; a nil prev means the day must
// bootstrap from the store or the assignment's live values.
func (e *Engine) computeDay(ctx context.Context, date core.Date, prev *assimilation.DayState) (*assimilation.DayState, error) {
	var population int
	var weightG float64
	if prev != nil {
		population = prev.Population
		weightG = prev.AvgWeightG
	} else {
		var err error
		population, weightG, err = e.InitialState(ctx, date)
		if err != nil {
			return nil, err
		}
	}

	if population < 0 {
		return nil, core.ErrNegativePopulation
	}

	temp, err := e.Temperature(ctx, date)
	if err != nil {
		return nil, err
	}

	mortality, err := e.Mortality(ctx, date, population, e.assignment.Stage)
	if err != nil {
		return nil, err
	}

	weight, err := e.advanceWeight(ctx, date, weightG, temp)
	if err != nil {
		return nil, err
	}

	newPopulation := population - mortality.Count

	now := time.Now().UTC()
	state := &assimilation.DayState{
		AssignmentID: e.assignment.ID,
		StateDate:    date,
		DayNumber:    e.scenario.DayNumber(date),
		AvgWeightG:   weight.Value,
		Population:   newPopulation,
		BiomassKG:    float64(newPopulation) * weight.Value / 1000.0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	state.SetResolution(assimilation.FieldTemperature, temp.Source, temp.Confidence)
	state.SetResolution(assimilation.FieldMortality, mortality.Source, mortality.Confidence)
	state.SetResolution(assimilation.FieldWeight, weight.Source, weight.Confidence)

	if err := state.Validate(); err != nil {
		return nil, err
	}
	return state, nil
}
