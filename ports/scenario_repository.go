package ports

import (
	"context"

	"aquafold/domain/core"
	"aquafold/domain/scenario"
)

// ScenarioRepository locates the model bundle governing an assignment's
// simulation. Scenarios are authored and versioned elsewhere; the engine
// treats them as immutable for the duration of a run.
type ScenarioRepository interface {
	// GetScenario loads a scenario bundle by ID.
	GetScenario(ctx context.Context, id core.ScenarioID) (*scenario.Scenario, error)

	// GetPinnedScenario resolves the scenario behind a batch's pinned
	// projection run. Returns core.ErrScenarioNotFound when the run exists
	// but no scenario can be resolved from it.
	GetPinnedScenario(ctx context.Context, runID core.ProjectionRunID) (*scenario.Scenario, error)
}
