package measurement

import (
	"fmt"
	"time"

	"aquafold/domain/core"
)

// Parameter identifies what an environmental reading measured.
type Parameter string

const (
	ParameterTemperature Parameter = "temperature"
	ParameterOxygen      Parameter = "oxygen"
	ParameterSalinity    Parameter = "salinity"
	ParameterPH          Parameter = "ph"
)

// EnvironmentalReading is a sensor or operator observation for a container.
// Readings are append-only facts; the engine only reads them.
type EnvironmentalReading struct {
	ID          core.ID
	ContainerID core.ContainerID
	Parameter   Parameter
	Value       float64
	RecordedAt  time.Time
}

// MortalityEvent records observed deaths for an assignment on one date.
type MortalityEvent struct {
	ID           core.ID
	AssignmentID core.AssignmentID
	EventDate    core.Date
	Count        int
	Cause        string
}

// SamplingMethod describes how fish were selected for a weight sample.
// Non-random protocols bias the raw average and must be corrected before
// the sample can stand in for the population mean.
type SamplingMethod string

const (
	// SamplingLargest - operator preferentially netted the biggest fish;
	// the raw average overstates the population mean.
	SamplingLargest SamplingMethod = "LARGEST"
	// SamplingSmallest - the raw average understates the population mean.
	SamplingSmallest SamplingMethod = "SMALLEST"
	// SamplingAverage - random/unbiased selection, no correction needed.
	SamplingAverage SamplingMethod = "AVERAGE"
)

// ParseSamplingMethod parses a sampling method name
func ParseSamplingMethod(s string) (SamplingMethod, error) {
	switch SamplingMethod(s) {
	case SamplingLargest, SamplingSmallest, SamplingAverage:
		return SamplingMethod(s), nil
	}
	return "", fmt.Errorf("unknown sampling method %q", s)
}

// WeightSample is an operator-recorded average weight for an assignment.
type WeightSample struct {
	ID           core.ID
	AssignmentID core.AssignmentID
	SampleDate   core.Date
	AvgWeightG   float64
	SampleSize   int
	Method       SamplingMethod
}

// Validate checks a sample's numeric fields before it enters the math
func (s *WeightSample) Validate() error {
	if s.AvgWeightG <= 0 {
		return core.NewComputationError("sample weight", "must be positive")
	}
	if s.SampleSize < 0 {
		return core.NewComputationError("sample size", "must be non-negative")
	}
	if _, err := ParseSamplingMethod(string(s.Method)); err != nil {
		return core.NewComputationError("sampling method", err.Error())
	}
	return nil
}
