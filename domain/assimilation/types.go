package assimilation

import (
	"fmt"
	"math"
	"time"

	"aquafold/domain/core"
)

// SourceTag is the closed set of data sources a daily field can come from.
// Keeping it an enum makes the fallback policy exhaustive rather than
// stringly typed.
type SourceTag string

const (
	// SourceMeasured - a direct environmental reading existed for the day.
	SourceMeasured SourceTag = "measured"
	// SourceProfile - derived from the growth model's temperature profile.
	SourceProfile SourceTag = "profile"
	// SourceActual - recorded mortality events existed for the day.
	SourceActual SourceTag = "actual"
	// SourceModel - estimated from the mortality model's stage rate.
	SourceModel SourceTag = "model"
	// SourceSampled - a bias-corrected weight sample overrode the trajectory.
	SourceSampled SourceTag = "sampled"
	// SourceCalculated - advanced from the prior day by the growth model.
	SourceCalculated SourceTag = "calculated"
)

// Valid reports whether the tag is a member of the closed set
func (t SourceTag) Valid() bool {
	switch t {
	case SourceMeasured, SourceProfile, SourceActual, SourceModel, SourceSampled, SourceCalculated:
		return true
	}
	return false
}

// Field names used in the Sources and Confidence maps of a DayState.
const (
	FieldTemperature = "temp"
	FieldMortality   = "mortality"
	FieldWeight      = "weight"
	FieldPopulation  = "population"
)

// Resolution is one resolved daily input: the value together with where it
// came from and how much it is trusted.
type Resolution struct {
	Value      float64
	Source     SourceTag
	Confidence float64
}

// DayState is the engine's output entity: the authoritative reconstruction
// of one assignment on one calendar date. One row exists per
// (assignment, date); recomputes update rows in place, never duplicate.
type DayState struct {
	AssignmentID core.AssignmentID     `db:"assignment_id" json:"assignment_id"`
	StateDate    core.Date             `db:"state_date" json:"state_date"`
	DayNumber    int                   `db:"day_number" json:"day_number"`
	AvgWeightG   float64               `db:"avg_weight_g" json:"avg_weight_g"`
	Population   int                   `db:"population" json:"population"`
	BiomassKG    float64               `db:"biomass_kg" json:"biomass_kg"`
	Sources      map[string]SourceTag  `json:"sources"`
	Confidence   map[string]float64    `json:"confidence_scores"`
	CreatedAt    time.Time             `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time             `db:"updated_at" json:"updated_at"`
}

// SetResolution records a field's value provenance and trust score
func (s *DayState) SetResolution(field string, source SourceTag, confidence float64) {
	if s.Sources == nil {
		s.Sources = make(map[string]SourceTag)
	}
	if s.Confidence == nil {
		s.Confidence = make(map[string]float64)
	}
	s.Sources[field] = source
	s.Confidence[field] = confidence
}

// Validate enforces the numeric invariants of a daily row before persistence
func (s *DayState) Validate() error {
	if s.DayNumber < 1 {
		return core.NewComputationError("day_number", "must be 1-based")
	}
	if s.Population < 0 {
		return core.ErrNegativePopulation
	}
	if s.AvgWeightG < 0 || math.IsNaN(s.AvgWeightG) || math.IsInf(s.AvgWeightG, 0) {
		return core.ErrNegativeWeight
	}
	expected := float64(s.Population) * s.AvgWeightG / 1000.0
	if math.Abs(s.BiomassKG-expected) > 1e-6 {
		return core.NewComputationError("biomass_kg", "must equal population x weight")
	}
	for field, tag := range s.Sources {
		if !tag.Valid() {
			return core.NewComputationError(field, fmt.Sprintf("invalid source tag %q", tag))
		}
	}
	for field, conf := range s.Confidence {
		if conf < 0 || conf > 1 {
			return core.NewComputationError(field, "confidence must be in [0,1]")
		}
	}
	return nil
}

// DayError is one failed date within a recompute range
type DayError struct {
	Date   core.Date `json:"date"`
	Reason string    `json:"reason"`
}

func (e DayError) String() string {
	return fmt.Sprintf("%s: %s", e.Date, e.Reason)
}

// RecomputeResult aggregates a run over a date range. Per-day failures are
// reported here, never raised.
type RecomputeResult struct {
	RowsCreated int        `json:"rows_created"`
	RowsUpdated int        `json:"rows_updated"`
	Errors      []DayError `json:"errors"`
}

// Failed reports whether any day in the range failed
func (r *RecomputeResult) Failed() bool {
	return len(r.Errors) > 0
}

// Days returns the number of days the run persisted
func (r *RecomputeResult) Days() int {
	return r.RowsCreated + r.RowsUpdated
}
