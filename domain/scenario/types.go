package scenario

import (
	"math"
	"sort"

	"aquafold/domain/batch"
	"aquafold/domain/core"
)

// Scenario is the model bundle pinned to an assignment through its batch's
// projection run. It is immutable for the duration of a recompute: growth,
// mortality, and feed models plus biological constraints and the declared
// starting state of the simulated trajectory.
type Scenario struct {
	ID             core.ScenarioID
	Name           string
	StartDate      core.Date
	InitialCount   int
	InitialWeightG float64
	Growth         GrowthModel
	Mortality      MortalityModel
	Feed           FeedModel
	Constraints    BiologicalConstraints
}

// DayNumber returns the 1-based day number of a date within the scenario,
// counted from the scenario start date.
func (s *Scenario) DayNumber(date core.Date) int {
	return date.DaysSince(s.StartDate) + 1
}

// GrowthModel is a TGC-style temperature-driven growth function together
// with the temperature profile used when no measurement exists.
type GrowthModel struct {
	ID             core.ID
	Name           string
	TGCCoefficient float64
	Profile        TemperatureProfile
}

// DailyGain returns the weight gain in grams for one day at the given
// water temperature, using the thermal growth coefficient form
// W2^(1/3) = W1^(1/3) + TGC * T / 1000.
func (m *GrowthModel) DailyGain(weightG, tempC float64) (float64, error) {
	if weightG < 0 {
		return 0, core.ErrNegativeWeight
	}
	if weightG == 0 {
		return 0, nil
	}
	next := math.Pow(math.Cbrt(weightG)+m.TGCCoefficient*tempC/1000.0, 3)
	if math.IsNaN(next) {
		return 0, core.NewComputationError("growth", "TGC produced NaN")
	}
	return next - weightG, nil
}

// ProfilePoint is one configured (day offset, temperature) pair.
type ProfilePoint struct {
	DayOffset    int
	TemperatureC float64
}

// TemperatureProfile is the growth model's configured temperature curve,
// indexed by day offset from the scenario start date.
type TemperatureProfile []ProfilePoint

// sorted returns the profile ordered by day offset.
func (p TemperatureProfile) sorted() TemperatureProfile {
	out := make(TemperatureProfile, len(p))
	copy(out, p)
	sort.Slice(out, func(i, j int) bool { return out[i].DayOffset < out[j].DayOffset })
	return out
}

// TemperatureAt derives the profile temperature for a day offset. Offsets
// between configured points interpolate linearly; offsets outside the
// configured range clamp to the nearest endpoint. An empty profile cannot
// produce a value.
func (p TemperatureProfile) TemperatureAt(dayOffset int) (float64, error) {
	if len(p) == 0 {
		return 0, core.NewDataSourceError("temperature profile", core.ErrNotFound)
	}
	pts := p.sorted()
	if dayOffset <= pts[0].DayOffset {
		return pts[0].TemperatureC, nil
	}
	if dayOffset >= pts[len(pts)-1].DayOffset {
		return pts[len(pts)-1].TemperatureC, nil
	}
	for i := 1; i < len(pts); i++ {
		if dayOffset > pts[i].DayOffset {
			continue
		}
		lo, hi := pts[i-1], pts[i]
		if hi.DayOffset == lo.DayOffset {
			return hi.TemperatureC, nil
		}
		frac := float64(dayOffset-lo.DayOffset) / float64(hi.DayOffset-lo.DayOffset)
		return lo.TemperatureC + frac*(hi.TemperatureC-lo.TemperatureC), nil
	}
	return pts[len(pts)-1].TemperatureC, nil
}

// MortalityModel maps lifecycle stages to expected daily loss rates.
type MortalityModel struct {
	ID    core.ID
	Name  string
	Rates map[batch.LifecycleStage]float64
}

// DailyRate returns the stage's expected daily mortality rate, falling back
// to a model-wide default stored under the empty stage key.
func (m *MortalityModel) DailyRate(stage batch.LifecycleStage) float64 {
	if rate, ok := m.Rates[stage]; ok {
		return rate
	}
	return m.Rates[""]
}

// FeedModel carries the feed conversion parameters pinned with the bundle.
// The assimilation engine does not apply it day to day; it travels with the
// scenario so feed planning reads the same bundle the engine ran with.
type FeedModel struct {
	ID   core.ID
	Name string
	FCR  float64
}

// BiologicalConstraints bound what the models may produce.
type BiologicalConstraints struct {
	MinWeightG    float64
	MaxWeightG    float64
	MaxDensityKgM3 float64
}

// ClampWeight applies the configured weight bounds. A zero MaxWeightG means
// no upper bound is configured.
func (c BiologicalConstraints) ClampWeight(weightG float64) float64 {
	if weightG < c.MinWeightG {
		return c.MinWeightG
	}
	if c.MaxWeightG > 0 && weightG > c.MaxWeightG {
		return c.MaxWeightG
	}
	return weightG
}
