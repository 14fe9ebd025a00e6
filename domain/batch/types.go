package batch

import (
	"fmt"

	"aquafold/domain/core"
)

// LifecycleStage identifies where a population sits in the production cycle.
// Mortality model rates are keyed by stage.
type LifecycleStage string

const (
	StageEgg       LifecycleStage = "egg"
	StageFry       LifecycleStage = "fry"
	StageParr      LifecycleStage = "parr"
	StageSmolt     LifecycleStage = "smolt"
	StagePostSmolt LifecycleStage = "post_smolt"
	StageAdult     LifecycleStage = "adult"
)

// ParseLifecycleStage parses a stage name
func ParseLifecycleStage(s string) (LifecycleStage, error) {
	switch LifecycleStage(s) {
	case StageEgg, StageFry, StageParr, StageSmolt, StagePostSmolt, StageAdult:
		return LifecycleStage(s), nil
	}
	return "", fmt.Errorf("unknown lifecycle stage %q", s)
}

// Assignment is a population of fish resident in one container at one
// lifecycle stage. The engine reads assignments, never creates them; the
// live Population/AvgWeightG fields are advisory seed values for day one,
// not a running ledger.
type Assignment struct {
	ID              core.AssignmentID
	BatchID         core.BatchID
	ContainerID     core.ContainerID
	Stage           LifecycleStage
	Population      int
	AvgWeightG      float64
	BiomassKG       float64
	ProjectionRunID *core.ProjectionRunID
}

// Validate checks the assignment's numeric invariants
func (a *Assignment) Validate() error {
	if a.Population < 0 {
		return core.NewComputationError("population", "must be non-negative")
	}
	if a.AvgWeightG < 0 {
		return core.NewComputationError("avg_weight_g", "must be non-negative")
	}
	return nil
}

// HasPinnedRun reports whether a projection run is pinned to the batch
func (a *Assignment) HasPinnedRun() bool {
	return a.ProjectionRunID != nil && !core.ID(*a.ProjectionRunID).IsEmpty()
}

// Biomass recomputes biomass in kilograms from population and average weight
func (a *Assignment) Biomass() float64 {
	return float64(a.Population) * a.AvgWeightG / 1000.0
}
